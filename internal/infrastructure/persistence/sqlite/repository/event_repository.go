package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"netcontrol/internal/domain/record"
	"netcontrol/internal/errs"
	"netcontrol/internal/infrastructure/persistence/sqlite/model"
	"netcontrol/internal/ports"
)

// createdAtLayout is fixed-width, unlike RFC3339Nano which trims trailing
// zeros; list queries order by this column as text, so lexicographic order
// must match chronological order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventRepository = (*EventRepository)(nil)

func (r *EventRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *EventRepository) Get(ctx context.Context, id string) (ports.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Event{}, err
	}

	var row model.Event
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Event{}, record.ErrNotFound
		}
		return ports.Event{}, errs.Wrap(err, "query event by id")
	}
	return mapEvent(row), nil
}

func (r *EventRepository) List(ctx context.Context, filter ports.ListFilter) ([]ports.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Event{})
	if !filter.IncludeDeleted {
		query = query.Where("delete_flag = ?", false)
	}
	if filter.ID != "" {
		query = query.Where("id = ?", filter.ID)
	}

	var rows []model.Event
	if err := query.Order("event_num asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query events")
	}

	items := make([]ports.Event, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapEvent(row))
	}
	return items, nil
}

// Insert assigns a fresh identity, the next display number and defaults, then
// merges the caller's columns. The store trusts its caller: fields are
// already validated and normalized.
func (r *EventRepository) Insert(ctx context.Context, fields map[string]any) (ports.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Event{}, err
	}

	var nextNum uint64
	if err := db.Model(&model.Event{}).
		Select("coalesce(max(event_num), 0) + 1").
		Scan(&nextNum).Error; err != nil {
		return ports.Event{}, errs.Wrap(err, "next event display number")
	}

	row := map[string]any{
		"id":          uuid.NewString(),
		"event_num":   nextNum,
		"delete_flag": false,
		"created_at":  time.Now().UTC().Format(createdAtLayout),
	}
	for column, value := range fields {
		row[column] = value
	}

	if err := db.Model(&model.Event{}).Create(row).Error; err != nil {
		return ports.Event{}, errs.Wrap(err, "insert event")
	}
	return r.Get(ctx, row["id"].(string))
}

// Update merges only the supplied columns into the existing row.
func (r *EventRepository) Update(ctx context.Context, id string, fields map[string]any) (ports.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Event{}, err
	}

	if _, err := r.Get(ctx, id); err != nil {
		return ports.Event{}, err
	}

	if len(fields) > 0 {
		if err := db.Model(&model.Event{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return ports.Event{}, errs.Wrap(err, "update event")
		}
	}
	return r.Get(ctx, id)
}

// SoftDelete marks the record deleted. A record that is already deleted is
// NotFound here, so a repeat delete neither succeeds nor republishes.
func (r *EventRepository) SoftDelete(ctx context.Context, id string) (ports.Event, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return ports.Event{}, err
	}
	if existing.DeleteFlag {
		return ports.Event{}, record.ErrNotFound
	}
	return r.Update(ctx, id, map[string]any{"delete_flag": true})
}

// Purge physically removes every row. Admin-only surface; operator deletes
// always go through SoftDelete.
func (r *EventRepository) Purge(ctx context.Context) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}
	if err := db.Where("1 = 1").Delete(&model.Event{}).Error; err != nil {
		return errs.Wrap(err, "purge events")
	}
	return nil
}

func mapEvent(row model.Event) ports.Event {
	return ports.Event{
		ID:             row.ID,
		EventNum:       row.EventNum,
		TimeIn:         row.TimeIn,
		Bib:            row.Bib,
		Reporter:       row.Reporter,
		LocationID:     row.LocationID,
		AgencyID:       row.AgencyID,
		AgencyNotified: row.AgencyNotified,
		AgencyArrival:  row.AgencyArrival,
		Resolved:       row.Resolved,
		Notes:          row.Notes,
		DeleteFlag:     row.DeleteFlag,
	}
}
