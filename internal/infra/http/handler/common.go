package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alignhq/api/pkg/apierror"
	"github.com/alignhq/api/pkg/domain/shared"
)

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// respondError maps domain errors to transport errors. Denials become
// 403 with a generic message; what was denied and why stays in the
// server logs.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrForbidden):
		apierror.Forbidden(err).WriteJSON(w)
	case errors.Is(err, shared.ErrUnauthorized):
		apierror.Unauthorized("authentication required").WriteJSON(w)
	case shared.IsNotFound(err):
		apierror.NotFound("").WriteJSON(w)
	case shared.IsValidation(err):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrAlreadyExists):
		apierror.Conflict(err.Error()).WriteJSON(w)
	default:
		apierror.InternalError(err).WriteJSON(w)
	}
}
