package gateerrors

import (
	"net/http"

	"github.com/kaleaditya28897-linux/gatepass/internal/shared/apperror"
)

var (
	ErrGateNotFound = apperror.New(
		apperror.CodeNotFound,
		"gate not found",
		http.StatusNotFound,
	)
	ErrGateInactive = apperror.New(
		apperror.CodeInvalidState,
		"gate is not active",
		http.StatusBadRequest,
	)
	ErrInvalidGateID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid gate id",
		http.StatusBadRequest,
	)
	ErrDuplicateGateCode = apperror.New(
		apperror.CodeConflict,
		"gate code already exists",
		http.StatusConflict,
	)
)
