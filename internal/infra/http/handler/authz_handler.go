package handler

import (
	"net/http"

	"github.com/alignhq/api/internal/app"
	"github.com/alignhq/api/internal/infra/http/middleware"
	"github.com/alignhq/api/pkg/apierror"
	"github.com/alignhq/api/pkg/validator"
)

// AuthzHandler exposes authorization previews and the validation
// suite. The preview endpoint answers "would this operation be
// allowed" without performing it; UIs use it to disable controls.
type AuthzHandler struct {
	service   *app.AuthorizationService
	validator *validator.Validator
}

// NewAuthzHandler creates a new AuthzHandler.
func NewAuthzHandler(service *app.AuthorizationService, v *validator.Validator) *AuthzHandler {
	return &AuthzHandler{service: service, validator: v}
}

type checkRequest struct {
	Operation    string `json:"operation" validate:"required"`
	TargetAreaID string `json:"targetAreaId" validate:"omitempty,uuid"`
}

// Check handles POST /authz/check. The full decision, including the
// reason, goes back to the caller: a preview is not a denial, and the
// subject is asking about its own access.
func (h *AuthzHandler) Check(w http.ResponseWriter, r *http.Request) {
	actx, ok := middleware.GetAccessContext(r.Context())
	if !ok {
		apierror.Unauthorized("authentication required").WriteJSON(w)
		return
	}

	var req checkRequest
	if err := decodeJSON(r, &req); err != nil {
		apierror.BadRequest("invalid request body").WriteJSON(w)
		return
	}
	if fieldErrs := h.validator.Validate(req); len(fieldErrs) > 0 {
		apierror.ValidationFailed("validation failed", fieldErrs).WriteJSON(w)
		return
	}

	res := h.service.Authorize(actx, req.Operation, req.TargetAreaID)
	respondJSON(w, http.StatusOK, res)
}

// Suite handles GET /authz/suite: runs the four-level validation suite
// for the calling subject.
func (h *AuthzHandler) Suite(w http.ResponseWriter, r *http.Request) {
	actx, ok := middleware.GetAccessContext(r.Context())
	if !ok {
		apierror.Unauthorized("authentication required").WriteJSON(w)
		return
	}

	suite := h.service.RunSuite(actx)
	respondJSON(w, http.StatusOK, suite)
}
