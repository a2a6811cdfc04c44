package utils

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrPlanNotFound       = errors.New("plan not found")
	ErrDatabaseError      = errors.New("database error")
)
