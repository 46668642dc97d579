package apperr

import "errors"

// Invalid is returned when the input fails domain validation.
var Invalid = errors.New("invalid input")

// Unauthenticated indicates missing or wrong credentials.
var Unauthenticated = errors.New("unauthenticated")

// Forbidden indicates an authenticated caller that is not entitled to the resource.
var Forbidden = errors.New("forbidden")

// Unauthorized indicates the caller's role is insufficient (non-admin).
var Unauthorized = errors.New("unauthorized")

// Conflict indicates a uniqueness conflict.
var Conflict = errors.New("conflict")

// NotFound indicates that the requested resource does not exist.
var NotFound = errors.New("not found")

// InvalidTransition indicates a mutation that the parcel's current state does not allow.
var InvalidTransition = errors.New("invalid transition")
