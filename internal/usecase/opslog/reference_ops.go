package opslog

import (
	"context"
	"fmt"

	"netcontrol/internal/domain/record"
	"netcontrol/internal/ports"
)

// Reference kinds follow the same create/update/remove contract but publish
// a payload-free <kind>_update signal instead of a patch event: changes are
// rare, so dashboards refetch the full reference list instead of patching.

func requireReferenceKind(kind record.Kind) error {
	if !kind.Reference() {
		return fmt.Errorf("not a reference kind: %q", kind)
	}
	return nil
}

func (s *Service) CreateReference(ctx context.Context, kind record.Kind, fields map[string]any) (Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	if err := requireReferenceKind(kind); err != nil {
		return nil, err
	}

	normalized, err := record.NormalizeFields(kind, fields)
	if err != nil {
		return nil, err
	}

	var created ports.Reference
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.refs.Insert(txCtx, kind, normalized)
		return err
	}); err != nil {
		return nil, err
	}

	s.publish(ctx, record.EventType(kind, record.ActionNew), nil)
	return referenceRecord(created), nil
}

func (s *Service) UpdateReference(ctx context.Context, kind record.Kind, id string, fields map[string]any) (Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	if err := requireReferenceKind(kind); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, record.ErrNotFound
	}

	normalized, err := record.NormalizeFields(kind, fields)
	if err != nil {
		return nil, err
	}

	var updated ports.Reference
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.refs.Update(txCtx, kind, id, normalized)
		return err
	}); err != nil {
		return nil, err
	}

	s.publish(ctx, record.EventType(kind, record.ActionEdit), nil)
	return referenceRecord(updated), nil
}

func (s *Service) RemoveReference(ctx context.Context, kind record.Kind, id string) (Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	if err := requireReferenceKind(kind); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, record.ErrNotFound
	}

	var removed ports.Reference
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		removed, err = s.refs.SoftDelete(txCtx, kind, id)
		return err
	}); err != nil {
		return nil, err
	}

	s.publish(ctx, record.EventType(kind, record.ActionRemove), nil)
	return referenceRecord(removed), nil
}

func (s *Service) GetReference(ctx context.Context, kind record.Kind, id string) (Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	if err := requireReferenceKind(kind); err != nil {
		return nil, err
	}

	ref, err := s.refs.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return referenceRecord(ref), nil
}

func (s *Service) ListReference(ctx context.Context, kind record.Kind, id string) ([]Record, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	if err := requireReferenceKind(kind); err != nil {
		return nil, err
	}

	items, err := s.refs.List(ctx, kind, ports.ListFilter{ID: id})
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(items))
	for _, ref := range items {
		records = append(records, referenceRecord(ref))
	}
	return records, nil
}
