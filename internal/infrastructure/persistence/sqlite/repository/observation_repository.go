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

type ObservationRepository struct {
	db *gorm.DB
}

func NewObservationRepository(db *gorm.DB) *ObservationRepository {
	return &ObservationRepository{db: db}
}

var _ ports.ObservationRepository = (*ObservationRepository)(nil)

func (r *ObservationRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
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

func (r *ObservationRepository) Get(ctx context.Context, id string) (ports.Observation, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Observation{}, err
	}

	var row model.Observation
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Observation{}, record.ErrNotFound
		}
		return ports.Observation{}, errs.Wrap(err, "query observation by id")
	}
	return mapObservation(row), nil
}

func (r *ObservationRepository) List(ctx context.Context, filter ports.ListFilter) ([]ports.Observation, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Observation{})
	if !filter.IncludeDeleted {
		query = query.Where("delete_flag = ?", false)
	}
	if filter.ID != "" {
		query = query.Where("id = ?", filter.ID)
	}

	var rows []model.Observation
	if err := query.Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query observations")
	}

	items := make([]ports.Observation, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapObservation(row))
	}
	return items, nil
}

func (r *ObservationRepository) Insert(ctx context.Context, fields map[string]any) (ports.Observation, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Observation{}, err
	}

	row := map[string]any{
		"id":          uuid.NewString(),
		"delete_flag": false,
		"created_at":  time.Now().UTC().Format(createdAtLayout),
	}
	for column, value := range fields {
		row[column] = value
	}

	if err := db.Model(&model.Observation{}).Create(row).Error; err != nil {
		return ports.Observation{}, errs.Wrap(err, "insert observation")
	}
	return r.Get(ctx, row["id"].(string))
}

func (r *ObservationRepository) Update(ctx context.Context, id string, fields map[string]any) (ports.Observation, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Observation{}, err
	}

	if _, err := r.Get(ctx, id); err != nil {
		return ports.Observation{}, err
	}

	if len(fields) > 0 {
		if err := db.Model(&model.Observation{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return ports.Observation{}, errs.Wrap(err, "update observation")
		}
	}
	return r.Get(ctx, id)
}

// SoftDelete marks the record deleted; an already-deleted record is NotFound.
func (r *ObservationRepository) SoftDelete(ctx context.Context, id string) (ports.Observation, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return ports.Observation{}, err
	}
	if existing.DeleteFlag {
		return ports.Observation{}, record.ErrNotFound
	}
	return r.Update(ctx, id, map[string]any{"delete_flag": true})
}

func (r *ObservationRepository) Purge(ctx context.Context) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}
	if err := db.Where("1 = 1").Delete(&model.Observation{}).Error; err != nil {
		return errs.Wrap(err, "purge observations")
	}
	return nil
}

func mapObservation(row model.Observation) ports.Observation {
	return ports.Observation{
		ID:         row.ID,
		Time:       row.Time,
		Bib:        row.Bib,
		Location:   row.Location,
		ReporterID: row.ReporterID,
		CategoryID: row.CategoryID,
		Notes:      row.Notes,
		DeleteFlag: row.DeleteFlag,
	}
}
