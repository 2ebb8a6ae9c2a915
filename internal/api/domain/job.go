package domain

import (
	"errors"
)

const (
	JobStatusActive    = "active"
	JobStatusCompleted = "completed"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

var (
	// ErrJobNotFound is returned when a job cannot be found in the database
	ErrJobNotFound = errors.New("job not found")

	// ErrJobAlreadyCompleted is returned when completing a job that is no
	// longer in active status
	ErrJobAlreadyCompleted = errors.New("job already completed")

	// ErrInvalidAddress is returned when a recipient wallet address does not
	// match the 0x-prefixed 40-hex-digit format
	ErrInvalidAddress = errors.New("invalid wallet address")
)

// ValidJobStatus reports whether s is a known job status value.
func ValidJobStatus(s string) bool {
	return s == JobStatusActive || s == JobStatusCompleted
}
