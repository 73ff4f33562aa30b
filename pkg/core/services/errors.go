package services

import "errors"

// ErrTrainerNotFound is returned when an operation names a trainer that is not in the directory
var ErrTrainerNotFound = errors.New("trainer not found")
