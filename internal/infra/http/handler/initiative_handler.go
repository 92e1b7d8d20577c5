package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alignhq/api/internal/app"
	"github.com/alignhq/api/internal/infra/http/middleware"
	"github.com/alignhq/api/pkg/apierror"
	"github.com/alignhq/api/pkg/domain/initiative"
	"github.com/alignhq/api/pkg/validator"
)

// InitiativeHandler handles initiative endpoints.
type InitiativeHandler struct {
	service   *app.InitiativeService
	validator *validator.Validator
}

// NewInitiativeHandler creates a new InitiativeHandler.
func NewInitiativeHandler(service *app.InitiativeService, v *validator.Validator) *InitiativeHandler {
	return &InitiativeHandler{service: service, validator: v}
}

// initiativeResponse is the wire shape of an initiative.
type initiativeResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	AreaID    string    `json:"areaId"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	CreatedBy string    `json:"createdBy"`
	OwnerID   string    `json:"ownerId,omitempty"`
	ParentID  string    `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toInitiativeResponse(init *initiative.Initiative) initiativeResponse {
	resp := initiativeResponse{
		ID:        init.ID().String(),
		TenantID:  init.TenantID().String(),
		AreaID:    init.AreaID().String(),
		Title:     init.Title(),
		Summary:   init.Summary(),
		Status:    string(init.Status()),
		Progress:  init.Progress(),
		CreatedBy: init.CreatedBy().String(),
		CreatedAt: init.CreatedAt(),
		UpdatedAt: init.UpdatedAt(),
	}
	if owner := init.OwnerID(); owner != nil {
		resp.OwnerID = owner.String()
	}
	if parent := init.ParentID(); parent != nil {
		resp.ParentID = parent.String()
	}
	return resp
}

type createInitiativeRequest struct {
	AreaID   string `json:"areaId" validate:"required,uuid"`
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Summary  string `json:"summary" validate:"max=2000"`
	OwnerID  string `json:"ownerId" validate:"omitempty,uuid"`
	ParentID string `json:"parentId" validate:"omitempty,uuid"`
}

// Create handles POST /initiatives.
func (h *InitiativeHandler) Create(w http.ResponseWriter, r *http.Request) {
	actx, ok := middleware.GetAccessContext(r.Context())
	if !ok {
		apierror.Unauthorized("authentication required").WriteJSON(w)
		return
	}

	var req createInitiativeRequest
	if err := decodeJSON(r, &req); err != nil {
		apierror.BadRequest("invalid request body").WriteJSON(w)
		return
	}
	if fieldErrs := h.validator.Validate(req); len(fieldErrs) > 0 {
		apierror.ValidationFailed("validation failed", fieldErrs).WriteJSON(w)
		return
	}

	init, err := h.service.Create(r.Context(), actx, app.CreateInitiativeInput{
		AreaID:   req.AreaID,
		Title:    req.Title,
		Summary:  req.Summary,
		OwnerID:  req.OwnerID,
		ParentID: req.ParentID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toInitiativeResponse(init))
}

// List handles GET /initiatives.
func (h *InitiativeHandler) List(w http.ResponseWriter, r *http.Request) {
	actx, ok := middleware.GetAccessContext(r.Context())
	if !ok {
		apierror.Unauthorized("authentication required").WriteJSON(w)
		return
	}

	items, err := h.service.List(r.Context(), actx)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]initiativeResponse, 0, len(items))
	for _, init := range items {
		resp = append(resp, toInitiativeResponse(init))
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": resp, "total": len(resp)})
}

// Get handles GET /initiatives/{id}.
func (h *InitiativeHandler) Get(w http.ResponseWriter, r *http.Request) {
	actx, ok := middleware.GetAccessContext(r.Context())
	if !ok {
		apierror.Unauthorized("authentication required").WriteJSON(w)
		return
	}

	init, err := h.service.Get(r.Context(), actx, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toInitiativeResponse(init))
}

type updateInitiativeRequest struct {
	Summary  *string `json:"summary" validate:"omitempty,max=2000"`
	Status   *string `json:"status" validate:"omitempty,oneof=draft active completed archived"`
	OwnerID  *string `json:"ownerId" validate:"omitempty,uuid"`
	ParentID *string `json:"parentId" validate:"omitempty,uuid"`
}

// Update handles PATCH /initiatives/{id}.
func (h *InitiativeHandler) Update(w http.ResponseWriter, r *http.Request) {
	actx, ok := middleware.GetAccessContext(r.Context())
	if !ok {
		apierror.Unauthorized("authentication required").WriteJSON(w)
		return
	}

	var req updateInitiativeRequest
	if err := decodeJSON(r, &req); err != nil {
		apierror.BadRequest("invalid request body").WriteJSON(w)
		return
	}
	if fieldErrs := h.validator.Validate(req); len(fieldErrs) > 0 {
		apierror.ValidationFailed("validation failed", fieldErrs).WriteJSON(w)
		return
	}

	init, err := h.service.Update(r.Context(), actx, chi.URLParam(r, "id"), app.UpdateInitiativeInput{
		Summary:  req.Summary,
		Status:   req.Status,
		OwnerID:  req.OwnerID,
		ParentID: req.ParentID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toInitiativeResponse(init))
}

type updateProgressRequest struct {
	Progress int `json:"progress" validate:"min=0,max=100"`
}

// UpdateProgress handles PUT /initiatives/{id}/progress.
func (h *InitiativeHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	actx, ok := middleware.GetAccessContext(r.Context())
	if !ok {
		apierror.Unauthorized("authentication required").WriteJSON(w)
		return
	}

	var req updateProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		apierror.BadRequest("invalid request body").WriteJSON(w)
		return
	}
	if fieldErrs := h.validator.Validate(req); len(fieldErrs) > 0 {
		apierror.ValidationFailed("validation failed", fieldErrs).WriteJSON(w)
		return
	}

	init, err := h.service.UpdateProgress(r.Context(), actx, chi.URLParam(r, "id"), req.Progress)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toInitiativeResponse(init))
}
