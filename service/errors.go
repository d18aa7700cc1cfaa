package service

import (
	"errors"
)

// Sentinel errors for the failure modes that handlers translate into user
// replies. Wrapped with fmt.Errorf("...: %w", ...) to carry detail; matched
// at the bot boundary with errors.Is.
var (
	// ErrValidation indicates malformed or missing arguments.
	ErrValidation = errors.New("validation failed")

	// ErrPermissionDenied indicates a non-admin invoking an admin command.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound indicates an unknown user or withdrawal request.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientBalance indicates a debit exceeding the current balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrChannelUnavailable indicates a configured channel that is missing
	// or not text-capable.
	ErrChannelUnavailable = errors.New("channel unavailable")

	// ErrAlreadyProcessed indicates a withdrawal completion that lost the
	// race; the caller's debit has been refunded.
	ErrAlreadyProcessed = errors.New("already processed")

	// ErrExpiredRequest indicates a missing pending withdrawal entry.
	ErrExpiredRequest = errors.New("withdrawal request expired")
)
