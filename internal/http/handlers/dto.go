package handlers

import (
	"time"

	"sendit/internal/domain"
)

type signupRequest struct {
	FirstName  string `json:"firstname" validate:"required,max=100"`
	LastName   string `json:"lastname" validate:"required,max=100"`
	OtherNames string `json:"othernames" validate:"max=100"`
	Email      string `json:"email" validate:"required,email"`
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Password   string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createParcelRequest struct {
	Weight       float64 `json:"weight" validate:"required,gt=0"`
	WeightMetric string  `json:"weightmetric" validate:"required,max=10"`
	From         string  `json:"from" validate:"required,max=255"`
	To           string  `json:"to" validate:"required,max=255"`
}

type destinationRequest struct {
	To string `json:"to" validate:"required,max=255"`
}

// status and location bodies are checked by the usecase after the role check.
type statusRequest struct {
	Status string `json:"status"`
}

type locationRequest struct {
	CurrentLocation string `json:"currentLocation"`
}

type userDTO struct {
	ID         int64     `json:"id"`
	FirstName  string    `json:"firstname"`
	LastName   string    `json:"lastname"`
	OtherNames string    `json:"othernames"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	IsAdmin    bool      `json:"isAdmin"`
	Registered time.Time `json:"registered"`
}

type sessionDTO struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type parcelDTO struct {
	ID              int64               `json:"id"`
	PlacedBy        int64               `json:"placedBy"`
	Weight          float64             `json:"weight"`
	WeightMetric    string              `json:"weightmetric"`
	From            string              `json:"from"`
	To              string              `json:"to"`
	CurrentLocation string              `json:"currentLocation"`
	Status          domain.ParcelStatus `json:"status"`
	SentOn          time.Time           `json:"sentOn"`
	DeliveredOn     *time.Time          `json:"deliveredOn"`
}

type messageDTO struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type destinationDTO struct {
	ID      int64  `json:"id"`
	To      string `json:"to"`
	Message string `json:"message"`
}

type statusDTO struct {
	ID      int64               `json:"id"`
	Status  domain.ParcelStatus `json:"status"`
	Message string              `json:"message"`
}

type locationDTO struct {
	ID              int64  `json:"id"`
	CurrentLocation string `json:"currentLocation"`
	Message         string `json:"message"`
}
