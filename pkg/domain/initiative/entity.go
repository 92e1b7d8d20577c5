// Package initiative defines the initiative entity: a tracked objective
// owned by one area of one tenant.
package initiative

import (
	"time"

	"github.com/alignhq/api/pkg/domain/shared"
)

// Status represents the lifecycle state of an initiative.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Initiative represents a tracked objective.
type Initiative struct {
	id        shared.ID
	tenantID  shared.ID
	areaID    shared.ID
	title     string
	summary   string
	status    Status
	progress  int // 0-100
	createdBy shared.ID
	ownerID   *shared.ID
	parentID  *shared.ID // optional parent initiative
	createdAt time.Time
	updatedAt time.Time
}

// NewInitiative creates a new Initiative. References (area, creator,
// owner, parent) must already have passed reference validation; the
// constructor enforces only local invariants.
func NewInitiative(tenantID, areaID shared.ID, title string, createdBy shared.ID) (*Initiative, error) {
	if tenantID.IsZero() {
		return nil, shared.Validationf("tenant id is required")
	}
	if areaID.IsZero() {
		return nil, shared.Validationf("area id is required")
	}
	if title == "" {
		return nil, shared.Validationf("title is required")
	}
	if createdBy.IsZero() {
		return nil, shared.Validationf("created_by is required")
	}

	now := time.Now().UTC()
	return &Initiative{
		id:        shared.NewID(),
		tenantID:  tenantID,
		areaID:    areaID,
		title:     title,
		status:    StatusDraft,
		createdBy: createdBy,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstitute recreates an Initiative from persistence.
func Reconstitute(
	id, tenantID, areaID shared.ID,
	title, summary string,
	status Status,
	progress int,
	createdBy shared.ID,
	ownerID, parentID *shared.ID,
	createdAt, updatedAt time.Time,
) *Initiative {
	return &Initiative{
		id:        id,
		tenantID:  tenantID,
		areaID:    areaID,
		title:     title,
		summary:   summary,
		status:    status,
		progress:  progress,
		createdBy: createdBy,
		ownerID:   ownerID,
		parentID:  parentID,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (i *Initiative) ID() shared.ID        { return i.id }
func (i *Initiative) TenantID() shared.ID  { return i.tenantID }
func (i *Initiative) AreaID() shared.ID    { return i.areaID }
func (i *Initiative) Title() string        { return i.title }
func (i *Initiative) Summary() string      { return i.summary }
func (i *Initiative) Status() Status       { return i.status }
func (i *Initiative) Progress() int        { return i.progress }
func (i *Initiative) CreatedBy() shared.ID { return i.createdBy }
func (i *Initiative) OwnerID() *shared.ID  { return i.ownerID }
func (i *Initiative) ParentID() *shared.ID { return i.parentID }
func (i *Initiative) CreatedAt() time.Time { return i.createdAt }
func (i *Initiative) UpdatedAt() time.Time { return i.updatedAt }

// SetSummary updates the summary text.
func (i *Initiative) SetSummary(summary string) {
	i.summary = summary
	i.updatedAt = time.Now().UTC()
}

// SetOwner assigns an owner.
func (i *Initiative) SetOwner(ownerID shared.ID) {
	i.ownerID = &ownerID
	i.updatedAt = time.Now().UTC()
}

// SetParent links a parent initiative.
func (i *Initiative) SetParent(parentID shared.ID) {
	i.parentID = &parentID
	i.updatedAt = time.Now().UTC()
}

// SetStatus transitions the lifecycle state.
func (i *Initiative) SetStatus(s Status) error {
	if !s.IsValid() {
		return shared.Validationf("unknown status %q", s)
	}
	i.status = s
	i.updatedAt = time.Now().UTC()
	return nil
}

// SetProgress updates completion percentage.
func (i *Initiative) SetProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return shared.Validationf("progress must be between 0 and 100, got %d", progress)
	}
	i.progress = progress
	i.updatedAt = time.Now().UTC()
	return nil
}
