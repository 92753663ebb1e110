package bus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go"

	"netcontrol/internal/bootstrap/logging"
	"netcontrol/internal/domain/record"
	"netcontrol/internal/errs"
)

// subjectPrefix namespaces every change event on the wire.
const subjectPrefix = "netcontrol.change"

// NATSBus bridges the bus over a NATS server so several service instances
// share one change-event stream. Publishes go to NATS; the instance's own
// subscribers (including the originator's dashboards) are fed from the NATS
// subscription, so every instance sees the same stream.
type NATSBus struct {
	conn *nats.Conn
	sub  *nats.Subscription
	hub  *Hub
}

var _ Bus = (*NATSBus)(nil)

func NewNATSBus(ctx context.Context, url string) (*NATSBus, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if url == "" {
		return nil, errors.New("nats url is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bus.nats"))

	conn, err := nats.Connect(url, nats.Name("netcontrol"))
	if err != nil {
		return nil, errs.Wrap(err, "connect nats")
	}

	b := &NATSBus{
		conn: conn,
		hub:  NewHub(),
	}

	sub, err := conn.Subscribe(subjectPrefix+".>", func(msg *nats.Msg) {
		var event record.ChangeEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logging.Warn(logCtx, "drop malformed change event", slog.Any("err", errs.Loggable(err)))
			return
		}
		// Context is gone by the time the message arrives; local fan-out
		// only needs a live one.
		_ = b.hub.Publish(context.Background(), event)
	})
	if err != nil {
		conn.Close()
		return nil, errs.Wrap(err, "subscribe change events")
	}
	b.sub = sub

	logging.Info(logCtx, "nats bus connected", slog.String("url", url))
	return b, nil
}

func (b *NATSBus) Publish(ctx context.Context, event record.ChangeEvent) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if event.Type == "" {
		return errors.New("event type is required")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "encode change event")
	}
	if err := b.conn.Publish(subjectPrefix+"."+event.Type, data); err != nil {
		return errs.Wrap(err, "publish change event")
	}
	return nil
}

func (b *NATSBus) Subscribe(buffer int) *Subscription {
	return b.hub.Subscribe(buffer)
}

func (b *NATSBus) Close() {
	if b.sub != nil {
		_ = b.sub.Unsubscribe()
	}
	b.conn.Close()
}
