package entryerrors

import (
	"net/http"

	"github.com/kaleaditya28897-linux/gatepass/internal/shared/apperror"
)

var (
	ErrExactlyOneSubject = apperror.New(
		apperror.CodeInvalidInput,
		"exactly one of pass_code or delivery_id is required",
		http.StatusBadRequest,
	)
	ErrInvalidEntryID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid entry id",
		http.StatusBadRequest,
	)
	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"entry not found",
		http.StatusNotFound,
	)
	ErrAlreadyInside = apperror.New(
		apperror.CodeConflict,
		"an open entry already exists for this subject",
		http.StatusConflict,
	)
)
