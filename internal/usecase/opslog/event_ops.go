package opslog

import (
	"context"
	"errors"

	"netcontrol/internal/domain/record"
	"netcontrol/internal/ports"
)

// CreateEvent validates and normalizes the supplied fields, commits the new
// event, and publishes a new_event change event carrying the full record.
// The conceptual transaction is normalize, write, publish: a failed
// normalize never writes, a failed write never publishes.
func (s *Service) CreateEvent(ctx context.Context, fields map[string]any) (Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}

	normalized, err := record.NormalizeFields(record.KindEvent, fields)
	if err != nil {
		return nil, err
	}

	var created ports.Event
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.events.Insert(txCtx, normalized)
		return err
	}); err != nil {
		return nil, err
	}

	rec := s.eventRecord(ctx, created)
	s.publish(ctx, record.EventType(record.KindEvent, record.ActionNew), rec)
	return rec, nil
}

// UpdateEvent merges the supplied fields into an existing event and
// publishes edit_event. Unsupplied fields are untouched.
func (s *Service) UpdateEvent(ctx context.Context, id string, fields map[string]any) (Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, record.ErrNotFound
	}

	normalized, err := record.NormalizeFields(record.KindEvent, fields)
	if err != nil {
		return nil, err
	}

	var updated ports.Event
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.events.Update(txCtx, id, normalized)
		return err
	}); err != nil {
		return nil, err
	}

	rec := s.eventRecord(ctx, updated)
	s.publish(ctx, record.EventType(record.KindEvent, record.ActionEdit), rec)
	return rec, nil
}

// RemoveEvent soft-deletes an event and publishes remove_event. The record
// stays in storage with its delete flag set; default list views filter it.
func (s *Service) RemoveEvent(ctx context.Context, id string) (Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, record.ErrNotFound
	}

	var removed ports.Event
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		removed, err = s.events.SoftDelete(txCtx, id)
		return err
	}); err != nil {
		return nil, err
	}

	rec := s.eventRecord(ctx, removed)
	s.publish(ctx, record.EventType(record.KindEvent, record.ActionRemove), rec)
	return rec, nil
}

// GetEvent returns a single event by identity, including soft-deleted ones;
// after-action review needs history to stay addressable.
func (s *Service) GetEvent(ctx context.Context, id string) (Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}

	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.eventRecord(ctx, ev), nil
}

// ListEvents returns live events in insertion order. A non-empty id narrows
// the result to that record.
func (s *Service) ListEvents(ctx context.Context, id string) ([]Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}

	items, err := s.events.List(ctx, ports.ListFilter{ID: id})
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(items))
	for _, ev := range items {
		records = append(records, s.eventRecord(ctx, ev))
	}
	return records, nil
}

// PurgeEvents physically removes every event row. Admin surface only; no
// change event is published, dashboards reload after an admin purge.
func (s *Service) PurgeEvents(ctx context.Context) error {
	if err := s.guard(ctx); err != nil {
		return err
	}
	if s.events == nil {
		return errors.New("event repository is required")
	}
	return s.uow.WithTx(ctx, func(txCtx context.Context) error {
		return s.events.Purge(txCtx)
	})
}
