// Package opslog is the mutation service: the only path by which records
// change. It owns field validation, time-of-day normalization, and the
// write-then-publish orchestration. Concurrent edits to the same record
// resolve last-write-wins at the store; there is no conflict signal. That is
// a documented limitation carried over deliberately, not an oversight.
package opslog

import (
	"context"
	"errors"
	"log/slog"

	"netcontrol/internal/bootstrap/logging"
	"netcontrol/internal/domain/record"
	"netcontrol/internal/errs"
	"netcontrol/internal/ports"
)

// Record is the external flat representation of a stored record.
type Record = map[string]any

type Service struct {
	events   ports.EventRepository
	obs      ports.ObservationRepository
	refs     ports.ReferenceRepository
	uow      ports.UnitOfWork
	notifier ports.Notifier
}

func NewService(
	events ports.EventRepository,
	obs ports.ObservationRepository,
	refs ports.ReferenceRepository,
	uow ports.UnitOfWork,
	notifier ports.Notifier,
) *Service {
	return &Service{
		events:   events,
		obs:      obs,
		refs:     refs,
		uow:      uow,
		notifier: notifier,
	}
}

func (s *Service) guard(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	return nil
}

// publish broadcasts a change event after a committed write. Delivery is
// best effort: a failed publish is logged and never surfaced to the
// mutating caller.
func (s *Service) publish(ctx context.Context, eventType string, payload Record) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Publish(ctx, record.ChangeEvent{
		Type:    eventType,
		Payload: payload,
	})
	if err != nil {
		logging.Warn(ctx, "change event publish failed",
			slog.String("event_type", eventType),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}
