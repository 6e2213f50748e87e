package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks inputs rejected before any simulation runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidAmount is returned when the financed amount (cost - down payment) is not positive.
	ErrInvalidAmount = fmt.Errorf("%w: financed amount must be greater than zero", ErrInvalidInput)

	// ErrNotLiquidated is returned when a loan cannot reach a zero balance within the iteration cap.
	ErrNotLiquidated = errors.New("loan is not liquidated with the current parameters")
)
