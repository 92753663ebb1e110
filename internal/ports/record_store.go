package ports

import (
	"context"
	"time"

	"netcontrol/internal/domain/record"
)

// ListFilter narrows a list query. The zero value lists every live record in
// insertion order; ID restricts the result to a single record and
// IncludeDeleted also returns soft-deleted rows.
type ListFilter struct {
	ID             string
	IncludeDeleted bool
}

// Event is an incident logged against the course.
type Event struct {
	ID             string
	EventNum       uint64
	TimeIn         *time.Time
	Bib            string
	Reporter       string
	LocationID     *string
	AgencyID       *string
	AgencyNotified *time.Time
	AgencyArrival  *time.Time
	Resolved       *time.Time
	Notes          string
	DeleteFlag     bool
}

// Observation is a crowd or participant sighting reported by an assignment.
type Observation struct {
	ID         string
	Time       *time.Time
	Bib        string
	Location   string
	ReporterID *string
	CategoryID *string
	Notes      string
	DeleteFlag bool
}

// Reference is the shared shape of the low-churn lookup kinds (Agency,
// Assignment, Location, ObservationCategory). DisplayName is only used by
// agencies and stays empty elsewhere.
type Reference struct {
	ID          string
	Name        string
	DisplayName string
	Description string
	Enabled     bool
	DeleteFlag  bool
}

// EventRepository persists events. Insert assigns a fresh identity, the next
// display number and defaults; Update merges only the supplied columns;
// SoftDelete flips the delete flag and leaves everything else intact. Update
// and SoftDelete return record.ErrNotFound for absent identities; SoftDelete
// also treats an already-deleted record as absent, so a repeat delete fails
// instead of announcing the removal twice.
type EventRepository interface {
	Get(ctx context.Context, id string) (Event, error)
	List(ctx context.Context, filter ListFilter) ([]Event, error)
	Insert(ctx context.Context, fields map[string]any) (Event, error)
	Update(ctx context.Context, id string, fields map[string]any) (Event, error)
	SoftDelete(ctx context.Context, id string) (Event, error)
	Purge(ctx context.Context) error
}

// ObservationRepository persists observations under the same contract.
type ObservationRepository interface {
	Get(ctx context.Context, id string) (Observation, error)
	List(ctx context.Context, filter ListFilter) ([]Observation, error)
	Insert(ctx context.Context, fields map[string]any) (Observation, error)
	Update(ctx context.Context, id string, fields map[string]any) (Observation, error)
	SoftDelete(ctx context.Context, id string) (Observation, error)
	Purge(ctx context.Context) error
}

// ReferenceRepository persists the four reference kinds behind one contract;
// kind selects the table. Disabled rows stay queryable so history keeps
// resolving.
type ReferenceRepository interface {
	Get(ctx context.Context, kind record.Kind, id string) (Reference, error)
	List(ctx context.Context, kind record.Kind, filter ListFilter) ([]Reference, error)
	Insert(ctx context.Context, kind record.Kind, fields map[string]any) (Reference, error)
	Update(ctx context.Context, kind record.Kind, id string, fields map[string]any) (Reference, error)
	SoftDelete(ctx context.Context, kind record.Kind, id string) (Reference, error)
}
