package passerrors

import (
	"net/http"

	"github.com/kaleaditya28897-linux/gatepass/internal/shared/apperror"
)

var (
	ErrInvalidPassID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid pass id",
		http.StatusBadRequest,
	)
	ErrInvalidHostCompany = apperror.New(
		apperror.CodeInvalidInput,
		"host_company_id is required",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidValidityFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid validity timestamp, expected RFC3339",
		http.StatusBadRequest,
	)
	ErrInvalidValidityWindow = apperror.New(
		apperror.CodeInvalidInput,
		"valid_from must be before or equal valid_until",
		http.StatusBadRequest,
	)
	ErrHostEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"host employee does not belong to the host company",
		http.StatusBadRequest,
	)
	ErrPassNotFound = apperror.New(
		apperror.CodeNotFound,
		"pass not found",
		http.StatusNotFound,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"only pending passes can be approved or rejected",
		http.StatusBadRequest,
	)
	ErrNotCheckable = apperror.New(
		apperror.CodeInvalidState,
		"pass status does not allow check-in",
		http.StatusBadRequest,
	)
	ErrPassExpired = apperror.New(
		apperror.CodeExpired,
		"pass has expired",
		http.StatusBadRequest,
	)
)
