package model

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Business rule rejections. These are returned by the enforcement logic and the database helpers, and they always
// surface synchronously as the result of the triggering request.
var (
	// ErrInsufficientFunds indicates that a purchase would drive the account balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoActiveSubscription indicates that the account has no active subscription.
	ErrNoActiveSubscription = errors.New("no active subscription")

	// ErrAccountSuspended indicates that the customer account has been suspended.
	ErrAccountSuspended = errors.New("account suspended")

	// ErrVMLimitReached indicates that the owner already has as many virtual machines as the plan allows.
	ErrVMLimitReached = errors.New("virtual machine limit reached for the current subscription")

	// ErrBackupLimitReached indicates that the virtual machine already has as many backups as the plan allows.
	ErrBackupLimitReached = errors.New("backup limit reached for this virtual machine")

	// ErrNotFound indicates that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)

// HTTPStatus maps an error to the HTTP status code used to report it. Limit and funding problems are reported as
// payment-required so that clients can prompt for a plan upgrade. Anything unrecognized is an internal error.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrNoActiveSubscription),
		errors.Is(err, ErrVMLimitReached),
		errors.Is(err, ErrBackupLimitReached):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrAccountSuspended):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// BusinessError sends an error response with the status code appropriate for the error.
func BusinessError(ctx echo.Context, err error) error {
	return Error(ctx, err.Error(), HTTPStatus(err))
}
