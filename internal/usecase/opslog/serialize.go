package opslog

import (
	"context"

	"netcontrol/internal/domain/record"
	"netcontrol/internal/ports"
)

// Serialization conventions, held consistent across create/read/update
// responses: events embed their related Location and Agency as nested
// records (plus the raw ids); observations and reference kinds stay flat and
// reference by id. Time-of-day fields render as "HH:MM" or null.

func clockValue(t *string) any {
	if t == nil {
		return nil
	}
	return *t
}

func idValue(id *string) any {
	if id == nil {
		return nil
	}
	return *id
}

func (s *Service) eventRecord(ctx context.Context, ev ports.Event) Record {
	return Record{
		"id":              ev.ID,
		"event_num":       ev.EventNum,
		"time_in":         clockValue(record.FormatClock(ev.TimeIn)),
		"bib":             ev.Bib,
		"reporter":        ev.Reporter,
		"location_id":     idValue(ev.LocationID),
		"agency_id":       idValue(ev.AgencyID),
		"location":        s.embeddedReference(ctx, record.KindLocation, ev.LocationID),
		"agency":          s.embeddedReference(ctx, record.KindAgency, ev.AgencyID),
		"agency_notified": clockValue(record.FormatClock(ev.AgencyNotified)),
		"agency_arrival":  clockValue(record.FormatClock(ev.AgencyArrival)),
		"resolved":        clockValue(record.FormatClock(ev.Resolved)),
		"notes":           ev.Notes,
		"delete_flag":     ev.DeleteFlag,
	}
}

func observationRecord(ob ports.Observation) Record {
	return Record{
		"id":          ob.ID,
		"time":        clockValue(record.FormatClock(ob.Time)),
		"bib":         ob.Bib,
		"location":    ob.Location,
		"reporter":    idValue(ob.ReporterID),
		"category":    idValue(ob.CategoryID),
		"notes":       ob.Notes,
		"delete_flag": ob.DeleteFlag,
	}
}

func referenceRecord(ref ports.Reference) Record {
	return Record{
		"id":           ref.ID,
		"name":         ref.Name,
		"display_name": ref.DisplayName,
		"description":  ref.Description,
		"enabled":      ref.Enabled,
		"delete_flag":  ref.DeleteFlag,
	}
}

// embeddedReference resolves a related reference record for embedding, or
// nil when the id is unset or no longer resolves. A dangling id is the
// dashboard's cue to refetch, not a serialization failure.
func (s *Service) embeddedReference(ctx context.Context, kind record.Kind, id *string) any {
	if id == nil || *id == "" {
		return nil
	}
	ref, err := s.refs.Get(ctx, kind, *id)
	if err != nil {
		return nil
	}
	return referenceRecord(ref)
}
