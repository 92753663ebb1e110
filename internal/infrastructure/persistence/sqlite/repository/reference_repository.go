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
	"netcontrol/internal/ports"
)

// ReferenceRepository backs the four reference kinds with one implementation;
// the kind selects the table. All four tables share the same column set.
type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

var _ ports.ReferenceRepository = (*ReferenceRepository)(nil)

// refRow is the shared row shape of the reference tables.
type refRow struct {
	ID          string `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name"`
	DisplayName string `gorm:"column:display_name"`
	Description string `gorm:"column:description"`
	Enabled     bool   `gorm:"column:enabled"`
	DeleteFlag  bool   `gorm:"column:delete_flag"`
	CreatedAt   string `gorm:"column:created_at"`
}

func referenceTable(kind record.Kind) (string, error) {
	switch kind {
	case record.KindAgency:
		return "agencies", nil
	case record.KindAssignment:
		return "assignments", nil
	case record.KindLocation:
		return "locations", nil
	case record.KindObservationCategory:
		return "observations_categories", nil
	default:
		return "", fmt.Errorf("not a reference kind: %q", kind)
	}
}

func (r *ReferenceRepository) table(ctx context.Context, kind record.Kind) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	name, err := referenceTable(kind)
	if err != nil {
		return nil, err
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx).Table(name), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx).Table(name), nil
}

func (r *ReferenceRepository) Get(ctx context.Context, kind record.Kind, id string) (ports.Reference, error) {
	query, err := r.table(ctx, kind)
	if err != nil {
		return ports.Reference{}, err
	}

	var row refRow
	if err := query.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Reference{}, record.ErrNotFound
		}
		return ports.Reference{}, errs.Wrapf(err, "query %s by id", kind)
	}
	return mapReference(row), nil
}

func (r *ReferenceRepository) List(ctx context.Context, kind record.Kind, filter ports.ListFilter) ([]ports.Reference, error) {
	query, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}

	if !filter.IncludeDeleted {
		query = query.Where("delete_flag = ?", false)
	}
	if filter.ID != "" {
		query = query.Where("id = ?", filter.ID)
	}

	var rows []refRow
	if err := query.Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrapf(err, "query %s list", kind)
	}

	items := make([]ports.Reference, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapReference(row))
	}
	return items, nil
}

func (r *ReferenceRepository) Insert(ctx context.Context, kind record.Kind, fields map[string]any) (ports.Reference, error) {
	query, err := r.table(ctx, kind)
	if err != nil {
		return ports.Reference{}, err
	}

	row := map[string]any{
		"id":          uuid.NewString(),
		"enabled":     true,
		"delete_flag": false,
		"created_at":  time.Now().UTC().Format(createdAtLayout),
	}
	for column, value := range fields {
		row[column] = value
	}

	if err := query.Create(row).Error; err != nil {
		return ports.Reference{}, errs.Wrapf(err, "insert %s", kind)
	}
	return r.Get(ctx, kind, row["id"].(string))
}

func (r *ReferenceRepository) Update(ctx context.Context, kind record.Kind, id string, fields map[string]any) (ports.Reference, error) {
	query, err := r.table(ctx, kind)
	if err != nil {
		return ports.Reference{}, err
	}

	if _, err := r.Get(ctx, kind, id); err != nil {
		return ports.Reference{}, err
	}

	if len(fields) > 0 {
		if err := query.Where("id = ?", id).Updates(fields).Error; err != nil {
			return ports.Reference{}, errs.Wrapf(err, "update %s", kind)
		}
	}
	return r.Get(ctx, kind, id)
}

// SoftDelete marks the record deleted; an already-deleted record is NotFound.
func (r *ReferenceRepository) SoftDelete(ctx context.Context, kind record.Kind, id string) (ports.Reference, error) {
	existing, err := r.Get(ctx, kind, id)
	if err != nil {
		return ports.Reference{}, err
	}
	if existing.DeleteFlag {
		return ports.Reference{}, record.ErrNotFound
	}
	return r.Update(ctx, kind, id, map[string]any{"delete_flag": true})
}

func mapReference(row refRow) ports.Reference {
	return ports.Reference{
		ID:          row.ID,
		Name:        row.Name,
		DisplayName: row.DisplayName,
		Description: row.Description,
		Enabled:     row.Enabled,
		DeleteFlag:  row.DeleteFlag,
	}
}
