package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/alignhq/api/pkg/domain/access"
	"github.com/alignhq/api/pkg/domain/initiative"
	"github.com/alignhq/api/pkg/domain/reference"
	"github.com/alignhq/api/pkg/domain/scope"
	"github.com/alignhq/api/pkg/domain/shared"
	"github.com/alignhq/api/pkg/logger"
)

// InitiativeService handles initiative operations. Every write runs the
// operation authorizer and the reference validator before touching
// storage; every read passes a freshly derived scope filter map to the
// repository.
type InitiativeService struct {
	repo   initiative.Repository
	refs   *reference.Validator
	authz  *AuthorizationService
	logger *logger.Logger
}

// NewInitiativeService creates a new InitiativeService.
func NewInitiativeService(repo initiative.Repository, refs *reference.Validator, authz *AuthorizationService, log *logger.Logger) *InitiativeService {
	return &InitiativeService{
		repo:   repo,
		refs:   refs,
		authz:  authz,
		logger: log.With("service", "initiative"),
	}
}

// CreateInitiativeInput is the write shape for initiative creation.
type CreateInitiativeInput struct {
	AreaID   string
	Title    string
	Summary  string
	OwnerID  string
	ParentID string
}

// Create authorizes, validates references, and persists a new
// initiative.
func (s *InitiativeService) Create(ctx context.Context, actx access.Context, input CreateInitiativeInput) (*initiative.Initiative, error) {
	if res := s.authz.Authorize(actx, access.OpCreateInitiative, input.AreaID); !res.Valid {
		return nil, fmt.Errorf("%w: %s", shared.ErrForbidden, res.Error)
	}

	outcome, err := s.refs.ValidateInitiativeReferences(ctx, reference.InitiativeRefs{
		TenantID:  actx.TenantID,
		AreaID:    input.AreaID,
		CreatedBy: actx.UserID,
		OwnerID:   input.OwnerID,
		ParentID:  input.ParentID,
	})
	if err != nil {
		return nil, fmt.Errorf("validating initiative references: %w", err)
	}
	if !outcome.Valid {
		return nil, shared.Validationf("%s", strings.Join(outcome.Errors, "; "))
	}

	tenantID, err := shared.ParseID(actx.TenantID)
	if err != nil {
		return nil, shared.Validationf("invalid tenant id")
	}
	areaID, err := shared.ParseID(input.AreaID)
	if err != nil {
		return nil, shared.Validationf("invalid area id")
	}
	createdBy, err := shared.ParseID(actx.UserID)
	if err != nil {
		return nil, shared.Validationf("invalid user id")
	}

	init, err := initiative.NewInitiative(tenantID, areaID, input.Title, createdBy)
	if err != nil {
		return nil, err
	}
	if input.Summary != "" {
		init.SetSummary(input.Summary)
	}
	if input.OwnerID != "" {
		ownerID, err := shared.ParseID(input.OwnerID)
		if err != nil {
			return nil, shared.Validationf("invalid owner id")
		}
		init.SetOwner(ownerID)
	}
	if input.ParentID != "" {
		parentID, err := shared.ParseID(input.ParentID)
		if err != nil {
			return nil, shared.Validationf("invalid parent id")
		}
		init.SetParent(parentID)
	}

	if err := s.repo.Create(ctx, init); err != nil {
		return nil, err
	}

	s.logger.Info("initiative created",
		"initiative_id", init.ID().String(),
		"tenant_id", actx.TenantID,
		"area_id", input.AreaID,
		"created_by", actx.UserID,
	)
	return init, nil
}

// UpdateProgress authorizes and applies a progress update.
func (s *InitiativeService) UpdateProgress(ctx context.Context, actx access.Context, initiativeID string, progress int) (*initiative.Initiative, error) {
	init, err := s.getScoped(ctx, actx, initiativeID)
	if err != nil {
		return nil, err
	}

	if res := s.authz.Authorize(actx, access.OpUpdateProgress, init.AreaID().String()); !res.Valid {
		return nil, fmt.Errorf("%w: %s", shared.ErrForbidden, res.Error)
	}

	if err := init.SetProgress(progress); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, init); err != nil {
		return nil, err
	}
	return init, nil
}

// UpdateInitiativeInput is the write shape for initiative edits. Nil
// fields are left unchanged.
type UpdateInitiativeInput struct {
	Summary  *string
	Status   *string
	OwnerID  *string
	ParentID *string
}

// Update authorizes and applies an edit.
func (s *InitiativeService) Update(ctx context.Context, actx access.Context, initiativeID string, input UpdateInitiativeInput) (*initiative.Initiative, error) {
	init, err := s.getScoped(ctx, actx, initiativeID)
	if err != nil {
		return nil, err
	}

	if res := s.authz.Authorize(actx, access.OpEditInitiative, init.AreaID().String()); !res.Valid {
		return nil, fmt.Errorf("%w: %s", shared.ErrForbidden, res.Error)
	}

	if input.Summary != nil {
		init.SetSummary(*input.Summary)
	}
	if input.Status != nil {
		if err := init.SetStatus(initiative.Status(*input.Status)); err != nil {
			return nil, err
		}
	}
	if input.OwnerID != nil {
		outcome, err := s.refs.ValidateUserAreaAssignment(ctx, *input.OwnerID, "", actx.TenantID, "")
		if err != nil {
			return nil, fmt.Errorf("validating owner: %w", err)
		}
		if !outcome.Valid {
			return nil, shared.Validationf("%s", strings.Join(outcome.Errors, "; "))
		}
		ownerID, err := shared.ParseID(*input.OwnerID)
		if err != nil {
			return nil, shared.Validationf("invalid owner id")
		}
		init.SetOwner(ownerID)
	}
	if input.ParentID != nil {
		outcome, err := s.refs.ValidateReference(ctx, "initiatives", "parent_id",
			"initiatives", "id", *input.ParentID, actx.TenantID, init.AreaID().String())
		if err != nil {
			return nil, fmt.Errorf("validating parent: %w", err)
		}
		if !outcome.Valid {
			return nil, shared.Validationf("%s", strings.Join(outcome.Errors, "; "))
		}
		parentID, err := shared.ParseID(*input.ParentID)
		if err != nil {
			return nil, shared.Validationf("invalid parent id")
		}
		init.SetParent(parentID)
	}

	if err := s.repo.Update(ctx, init); err != nil {
		return nil, err
	}
	return init, nil
}

// List returns the initiatives visible under the subject's scope.
func (s *InitiativeService) List(ctx context.Context, actx access.Context) ([]*initiative.Initiative, error) {
	sc := scope.Resolve(actx.Role, actx.TenantID, actx.AreaID)
	if sc == nil {
		return nil, fmt.Errorf("%w: no data scope for subject", shared.ErrForbidden)
	}
	return s.repo.ListScoped(ctx, sc.Filters())
}

// Get returns a single initiative if it falls inside the subject's
// scope.
func (s *InitiativeService) Get(ctx context.Context, actx access.Context, initiativeID string) (*initiative.Initiative, error) {
	return s.getScoped(ctx, actx, initiativeID)
}

// getScoped loads an initiative and verifies it against the subject's
// scope. An initiative outside the scope is reported as not found, so
// the subject cannot probe for records it may not see.
func (s *InitiativeService) getScoped(ctx context.Context, actx access.Context, initiativeID string) (*initiative.Initiative, error) {
	sc := scope.Resolve(actx.Role, actx.TenantID, actx.AreaID)
	if sc == nil {
		return nil, fmt.Errorf("%w: no data scope for subject", shared.ErrForbidden)
	}

	tenantID, err := shared.ParseID(actx.TenantID)
	if err != nil {
		return nil, shared.Validationf("invalid tenant id")
	}
	id, err := shared.ParseID(initiativeID)
	if err != nil {
		return nil, shared.Validationf("invalid initiative id")
	}

	init, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !sc.CoversArea(init.AreaID().String()) {
		return nil, shared.NotFoundf("initiative")
	}
	return init, nil
}
