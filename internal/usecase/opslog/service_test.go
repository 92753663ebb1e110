package opslog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"netcontrol/internal/domain/record"
	"netcontrol/internal/infrastructure/bus"
	"netcontrol/internal/infrastructure/persistence/sqlite/model"
	"netcontrol/internal/infrastructure/persistence/sqlite/repository"
	"netcontrol/internal/infrastructure/persistence/sqlite/uow"
)

func setupService(t *testing.T) (*Service, *bus.Hub) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "netcontrol.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(
		&model.Event{},
		&model.Observation{},
		&model.Agency{},
		&model.Assignment{},
		&model.Location{},
		&model.ObservationCategory{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	hub := bus.NewHub()
	svc := NewService(
		repository.NewEventRepository(db),
		repository.NewObservationRepository(db),
		repository.NewReferenceRepository(db),
		uow.NewUnitOfWork(db),
		hub,
	)
	return svc, hub
}

func drainOne(t *testing.T, sub *bus.Subscription) record.ChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		if !ok {
			t.Fatal("subscription closed")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("no change event delivered")
	}
	return record.ChangeEvent{}
}

func expectQuiet(t *testing.T, sub *bus.Subscription) {
	t.Helper()
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected change event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCreateEventAppearsInListWithDefaults(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, map[string]any{
		"time_in": "06:00",
		"bib":     "4521",
		"notes":   "cramping at mile 6",
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	if created["id"] == "" || created["id"] == nil {
		t.Fatalf("CreateEvent() id = %v", created["id"])
	}
	if created["time_in"] != "06:00" {
		t.Fatalf("CreateEvent() time_in = %v", created["time_in"])
	}
	if created["delete_flag"] != false {
		t.Fatalf("CreateEvent() delete_flag = %v", created["delete_flag"])
	}

	listed, err := svc.ListEvents(ctx, "")
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("ListEvents() len = %d", len(listed))
	}
	if listed[0]["id"] != created["id"] || listed[0]["bib"] != "4521" {
		t.Fatalf("ListEvents() = %+v", listed[0])
	}
}

func TestUpdateEventIsPartial(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, map[string]any{"time_in": "06:00", "bib": "4521"})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	id := created["id"].(string)
	updated, err := svc.UpdateEvent(ctx, id, map[string]any{"resolved": "06:45"})
	if err != nil {
		t.Fatalf("UpdateEvent() error = %v", err)
	}
	if updated["resolved"] != "06:45" {
		t.Fatalf("UpdateEvent() resolved = %v", updated["resolved"])
	}
	if updated["time_in"] != "06:00" || updated["bib"] != "4521" {
		t.Fatalf("UpdateEvent() altered other fields: %+v", updated)
	}
}

func TestRemoveEventIsSoftDelete(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, map[string]any{"bib": "4521"})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	id := created["id"].(string)

	removed, err := svc.RemoveEvent(ctx, id)
	if err != nil {
		t.Fatalf("RemoveEvent() error = %v", err)
	}
	if removed["delete_flag"] != true {
		t.Fatalf("RemoveEvent() delete_flag = %v", removed["delete_flag"])
	}

	listed, err := svc.ListEvents(ctx, "")
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("ListEvents() should omit removed record, got %+v", listed)
	}

	got, err := svc.GetEvent(ctx, id)
	if err != nil {
		t.Fatalf("GetEvent() after remove error = %v", err)
	}
	if got["delete_flag"] != true {
		t.Fatalf("GetEvent() delete_flag = %v", got["delete_flag"])
	}
}

func TestEachMutationPublishesExactlyOneEvent(t *testing.T) {
	svc, hub := setupService(t)
	ctx := context.Background()
	sub := hub.Subscribe(16)
	defer sub.Close()

	created, err := svc.CreateEvent(ctx, map[string]any{"bib": "4521"})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	id := created["id"].(string)

	ev := drainOne(t, sub)
	if ev.Type != "new_event" || ev.Payload["id"] != id {
		t.Fatalf("create published %+v", ev)
	}

	if _, err := svc.UpdateEvent(ctx, id, map[string]any{"notes": "ok"}); err != nil {
		t.Fatalf("UpdateEvent() error = %v", err)
	}
	ev = drainOne(t, sub)
	if ev.Type != "edit_event" || ev.Payload["id"] != id {
		t.Fatalf("update published %+v", ev)
	}

	if _, err := svc.RemoveEvent(ctx, id); err != nil {
		t.Fatalf("RemoveEvent() error = %v", err)
	}
	ev = drainOne(t, sub)
	if ev.Type != "remove_event" || ev.Payload["id"] != id {
		t.Fatalf("remove published %+v", ev)
	}

	expectQuiet(t, sub)
}

func TestReferenceMutationsPublishSignalOnly(t *testing.T) {
	svc, hub := setupService(t)
	ctx := context.Background()
	sub := hub.Subscribe(16)
	defer sub.Close()

	created, err := svc.CreateReference(ctx, record.KindAgency, map[string]any{
		"name":         "Law",
		"display_name": "Law",
	})
	if err != nil {
		t.Fatalf("CreateReference() error = %v", err)
	}

	ev := drainOne(t, sub)
	if ev.Type != "agency_update" {
		t.Fatalf("create published %+v", ev)
	}
	if ev.Payload != nil {
		t.Fatalf("reference signal must carry no payload, got %+v", ev.Payload)
	}

	if _, err := svc.RemoveReference(ctx, record.KindAgency, created["id"].(string)); err != nil {
		t.Fatalf("RemoveReference() error = %v", err)
	}
	ev = drainOne(t, sub)
	if ev.Type != "agency_update" {
		t.Fatalf("remove published %+v", ev)
	}
	expectQuiet(t, sub)
}

func TestRepeatRemoveReturnsNotFoundAndStaysQuiet(t *testing.T) {
	svc, hub := setupService(t)
	ctx := context.Background()
	sub := hub.Subscribe(16)
	defer sub.Close()

	created, err := svc.CreateEvent(ctx, map[string]any{"bib": "4521"})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	id := created["id"].(string)
	drainOne(t, sub) // new_event

	if _, err := svc.RemoveEvent(ctx, id); err != nil {
		t.Fatalf("RemoveEvent() error = %v", err)
	}
	ev := drainOne(t, sub)
	if ev.Type != "remove_event" {
		t.Fatalf("first remove published %+v", ev)
	}

	if _, err := svc.RemoveEvent(ctx, id); err != record.ErrNotFound {
		t.Fatalf("repeat RemoveEvent() error = %v, want ErrNotFound", err)
	}
	expectQuiet(t, sub)
}

func TestMutationOnMissingIDPublishesNothing(t *testing.T) {
	svc, hub := setupService(t)
	ctx := context.Background()
	sub := hub.Subscribe(16)
	defer sub.Close()

	if _, err := svc.UpdateEvent(ctx, "no-such-id", map[string]any{"bib": "1"}); err != record.ErrNotFound {
		t.Fatalf("UpdateEvent() error = %v, want ErrNotFound", err)
	}
	if _, err := svc.RemoveObservation(ctx, "no-such-id"); err != record.ErrNotFound {
		t.Fatalf("RemoveObservation() error = %v, want ErrNotFound", err)
	}

	expectQuiet(t, sub)

	listed, err := svc.ListEvents(ctx, "")
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("store mutated by failed update: %+v", listed)
	}
}

func TestValidationFailureWritesNothing(t *testing.T) {
	svc, hub := setupService(t)
	ctx := context.Background()
	sub := hub.Subscribe(16)
	defer sub.Close()

	if _, err := svc.CreateEvent(ctx, map[string]any{"time_in": "late morning"}); err == nil {
		t.Fatal("expected validation error")
	} else if !record.IsValidation(err) {
		t.Fatalf("error = %v, want ValidationError", err)
	}

	if _, err := svc.CreateEvent(ctx, map[string]any{"severity": "high"}); err == nil {
		t.Fatal("expected validation error for unknown field")
	}

	expectQuiet(t, sub)
	listed, err := svc.ListEvents(ctx, "")
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("store mutated by rejected create: %+v", listed)
	}
}

func TestEventEmbedsReferenceRecords(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	agency, err := svc.CreateReference(ctx, record.KindAgency, map[string]any{
		"name":         "Law",
		"display_name": "Law",
	})
	if err != nil {
		t.Fatalf("CreateReference() error = %v", err)
	}

	created, err := svc.CreateEvent(ctx, map[string]any{
		"bib":       "4521",
		"agency_id": agency["id"],
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	embedded, ok := created["agency"].(Record)
	if !ok {
		t.Fatalf("agency = %T(%v), want embedded record", created["agency"], created["agency"])
	}
	if embedded["name"] != "Law" {
		t.Fatalf("embedded agency = %+v", embedded)
	}
	if created["location"] != nil {
		t.Fatalf("unset location should embed nil, got %v", created["location"])
	}
}

// The end-to-end operator scenario: log an incident, resolve it, retire it.
func TestEventLifecycleScenario(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	agency, err := svc.CreateReference(ctx, record.KindAgency, map[string]any{"name": "Law"})
	if err != nil {
		t.Fatalf("CreateReference() error = %v", err)
	}

	created, err := svc.CreateEvent(ctx, map[string]any{
		"time_in":   "06:00",
		"bib":       "4521",
		"agency_id": agency["id"],
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	id, ok := created["id"].(string)
	if !ok || id == "" {
		t.Fatalf("create returned no identity: %+v", created)
	}
	if created["time_in"] != "06:00" {
		t.Fatalf("create time_in = %v", created["time_in"])
	}

	updated, err := svc.UpdateEvent(ctx, id, map[string]any{"resolved": "06:45"})
	if err != nil {
		t.Fatalf("UpdateEvent() error = %v", err)
	}
	if updated["time_in"] != "06:00" || updated["resolved"] != "06:45" {
		t.Fatalf("update = %+v", updated)
	}

	if _, err := svc.RemoveEvent(ctx, id); err != nil {
		t.Fatalf("RemoveEvent() error = %v", err)
	}

	listed, err := svc.ListEvents(ctx, "")
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	for _, rec := range listed {
		if rec["id"] == id {
			t.Fatalf("removed event still listed: %+v", rec)
		}
	}

	got, err := svc.GetEvent(ctx, id)
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if got["delete_flag"] != true {
		t.Fatalf("GetEvent() delete_flag = %v", got["delete_flag"])
	}
}

func TestObservationFlatSerialization(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	reporter, err := svc.CreateReference(ctx, record.KindAssignment, map[string]any{"name": "AS7"})
	if err != nil {
		t.Fatalf("CreateReference() error = %v", err)
	}

	created, err := svc.CreateObservation(ctx, map[string]any{
		"time":        "09:15",
		"bib":         "77",
		"location":    "MM13",
		"reporter_id": reporter["id"],
	})
	if err != nil {
		t.Fatalf("CreateObservation() error = %v", err)
	}
	if created["time"] != "09:15" {
		t.Fatalf("time = %v", created["time"])
	}
	if created["reporter"] != reporter["id"] {
		t.Fatalf("reporter = %v, want flat id reference", created["reporter"])
	}
	if created["category"] != nil {
		t.Fatalf("category = %v, want nil", created["category"])
	}
}
