package deliveryerrors

import (
	"net/http"

	"github.com/kaleaditya28897-linux/gatepass/internal/shared/apperror"
)

var (
	ErrInvalidDeliveryID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid delivery id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployee = apperror.New(
		apperror.CodeInvalidInput,
		"employee_id is required",
		http.StatusBadRequest,
	)
	ErrInvalidExpectedAt = apperror.New(
		apperror.CodeInvalidInput,
		"invalid expected_at timestamp, expected RFC3339",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
	ErrDeliveryNotFound = apperror.New(
		apperror.CodeNotFound,
		"delivery not found",
		http.StatusNotFound,
	)
	ErrNotExpected = apperror.New(
		apperror.CodeInvalidState,
		"delivery is not in expected status",
		http.StatusBadRequest,
	)
	ErrNotCheckable = apperror.New(
		apperror.CodeInvalidState,
		"delivery status does not allow check-in",
		http.StatusBadRequest,
	)
	ErrNotArrived = apperror.New(
		apperror.CodeInvalidState,
		"delivery has not arrived yet",
		http.StatusBadRequest,
	)
	ErrTooManyOTPAttempts = apperror.New(
		apperror.CodeTooManyAttempts,
		"too many OTP attempts, try again later",
		http.StatusTooManyRequests,
	)
)
