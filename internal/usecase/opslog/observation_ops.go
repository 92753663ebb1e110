package opslog

import (
	"context"

	"netcontrol/internal/domain/record"
	"netcontrol/internal/ports"
)

func (s *Service) CreateObservation(ctx context.Context, fields map[string]any) (Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}

	normalized, err := record.NormalizeFields(record.KindObservation, fields)
	if err != nil {
		return nil, err
	}

	var created ports.Observation
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.obs.Insert(txCtx, normalized)
		return err
	}); err != nil {
		return nil, err
	}

	rec := observationRecord(created)
	s.publish(ctx, record.EventType(record.KindObservation, record.ActionNew), rec)
	return rec, nil
}

func (s *Service) UpdateObservation(ctx context.Context, id string, fields map[string]any) (Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, record.ErrNotFound
	}

	normalized, err := record.NormalizeFields(record.KindObservation, fields)
	if err != nil {
		return nil, err
	}

	var updated ports.Observation
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.obs.Update(txCtx, id, normalized)
		return err
	}); err != nil {
		return nil, err
	}

	rec := observationRecord(updated)
	s.publish(ctx, record.EventType(record.KindObservation, record.ActionEdit), rec)
	return rec, nil
}

func (s *Service) RemoveObservation(ctx context.Context, id string) (Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, record.ErrNotFound
	}

	var removed ports.Observation
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		removed, err = s.obs.SoftDelete(txCtx, id)
		return err
	}); err != nil {
		return nil, err
	}

	rec := observationRecord(removed)
	s.publish(ctx, record.EventType(record.KindObservation, record.ActionRemove), rec)
	return rec, nil
}

func (s *Service) GetObservation(ctx context.Context, id string) (Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}

	ob, err := s.obs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return observationRecord(ob), nil
}

func (s *Service) ListObservations(ctx context.Context, id string) ([]Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}

	items, err := s.obs.List(ctx, ports.ListFilter{ID: id})
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(items))
	for _, ob := range items {
		records = append(records, observationRecord(ob))
	}
	return records, nil
}

func (s *Service) PurgeObservations(ctx context.Context) error {
	if err := s.guard(ctx); err != nil {
		return err
	}
	return s.uow.WithTx(ctx, func(txCtx context.Context) error {
		return s.obs.Purge(txCtx)
	})
}
