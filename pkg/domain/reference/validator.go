package reference

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alignhq/api/pkg/domain/role"
)

// Outcome collects every defect found by one validation call. Reference
// failures are data, not errors: a write boundary treats an invalid
// outcome as a hard rejection.
type Outcome struct {
	Valid  bool     `json:"isValid"`
	Errors []string `json:"errors,omitempty"`
}

func outcomeFrom(errs []string) Outcome {
	sort.Strings(errs)
	return Outcome{Valid: len(errs) == 0, Errors: errs}
}

// Validator checks foreign-key references against the storage
// collaborator. It holds no per-request state and is safe for
// concurrent use.
type Validator struct {
	checker Checker
}

// NewValidator creates a Validator backed by the given checker.
func NewValidator(checker Checker) *Validator {
	return &Validator{checker: checker}
}

// ValidateReference verifies that value resolves to an existing record
// in referencedTable, constrained to the tenant and, when areaID is
// non-empty, the area. The returned Outcome carries a descriptive error
// on failure; the error return is reserved for infrastructure failures.
func (v *Validator) ValidateReference(ctx context.Context, childTable, foreignKey, referencedTable, referencedKey, value, tenantID, areaID string) (Outcome, error) {
	if value == "" {
		return outcomeFrom([]string{
			fmt.Sprintf("%s.%s: reference value is empty", childTable, foreignKey),
		}), nil
	}

	exists, err := v.checker.Exists(ctx, ExistsQuery{
		Table:    referencedTable,
		Key:      referencedKey,
		Value:    value,
		TenantID: tenantID,
		AreaID:   areaID,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("checking %s.%s against %s: %w", childTable, foreignKey, referencedTable, err)
	}
	if !exists {
		return outcomeFrom([]string{
			fmt.Sprintf("%s.%s: %q does not resolve to a %s record in tenant %s",
				childTable, foreignKey, value, referencedTable, tenantID),
		}), nil
	}
	return outcomeFrom(nil), nil
}

// InitiativeRefs are the foreign keys of an initiative write.
type InitiativeRefs struct {
	TenantID  string
	AreaID    string
	CreatedBy string
	OwnerID   string
	ParentID  string
}

// ValidateInitiativeReferences validates every reference of an
// initiative write: the area must belong to the tenant, the creator
// and owner must be users of the tenant, and the parent, when set,
// must be an initiative of the same tenant and area. The sub-checks
// have no ordering dependency and run concurrently; all outcomes are
// aggregated so a single call reports every defect, not just the
// first. Only an infrastructure failure aborts the pass.
func (v *Validator) ValidateInitiativeReferences(ctx context.Context, refs InitiativeRefs) (Outcome, error) {
	type subCheck struct {
		childColumn string
		query       ExistsQuery
	}
	checks := []subCheck{
		{
			childColumn: "area_id",
			query:       ExistsQuery{Table: "areas", Key: "id", Value: refs.AreaID, TenantID: refs.TenantID},
		},
		{
			childColumn: "created_by",
			query:       ExistsQuery{Table: "users", Key: "id", Value: refs.CreatedBy, TenantID: refs.TenantID},
		},
	}
	if refs.OwnerID != "" {
		checks = append(checks, subCheck{
			childColumn: "owner_id",
			query:       ExistsQuery{Table: "users", Key: "id", Value: refs.OwnerID, TenantID: refs.TenantID},
		})
	}
	if refs.ParentID != "" {
		// The area constraint keeps a manager from parenting work under
		// another area's initiative.
		checks = append(checks, subCheck{
			childColumn: "parent_id",
			query:       ExistsQuery{Table: "initiatives", Key: "id", Value: refs.ParentID, TenantID: refs.TenantID, AreaID: refs.AreaID},
		})
	}

	var (
		mu   sync.Mutex
		errs []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range checks {
		c := c
		g.Go(func() error {
			if c.query.Value == "" {
				mu.Lock()
				errs = append(errs, fmt.Sprintf("initiatives.%s: reference value is empty", c.childColumn))
				mu.Unlock()
				return nil
			}
			exists, err := v.checker.Exists(gctx, c.query)
			if err != nil {
				return fmt.Errorf("checking initiatives.%s: %w", c.childColumn, err)
			}
			if !exists {
				mu.Lock()
				errs = append(errs, fmt.Sprintf("initiatives.%s: %q does not resolve to a %s record in tenant %s",
					c.childColumn, c.query.Value, c.query.Table, refs.TenantID))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}
	return outcomeFrom(errs), nil
}

// ValidateUserAreaAssignment verifies that the referenced user exists in
// the tenant, is active, is assigned to the required area, and, when
// requiredRole is non-empty, holds exactly that role. The conditions are
// independent checks whose errors are concatenated, not short-circuited.
func (v *Validator) ValidateUserAreaAssignment(ctx context.Context, userID, requiredAreaID, tenantID string, requiredRole role.Role) (Outcome, error) {
	subject, err := v.checker.SubjectByID(ctx, userID, tenantID)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading user %s: %w", userID, err)
	}
	if subject == nil {
		return outcomeFrom([]string{
			fmt.Sprintf("user %q not found in tenant %s", userID, tenantID),
		}), nil
	}

	var errs []string
	if !subject.IsActive {
		errs = append(errs, fmt.Sprintf("user %q is inactive", userID))
	}
	if requiredAreaID != "" && subject.AreaID != requiredAreaID {
		errs = append(errs, fmt.Sprintf("user %q is not assigned to area %s", userID, requiredAreaID))
	}
	if requiredRole != "" && subject.Role != requiredRole {
		errs = append(errs, fmt.Sprintf("user %q does not hold role %s", userID, requiredRole))
	}
	return outcomeFrom(errs), nil
}
