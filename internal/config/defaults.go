package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "postgres",
	Pass: "admin",
	Name: "sendit",
}

const defaultTokenTTL = 24 * time.Hour

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultTokenTTL returns the default token lifetime.
func DefaultTokenTTL() time.Duration {
	return defaultTokenTTL
}
