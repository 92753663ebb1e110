package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"netcontrol/internal/domain/record"
	"netcontrol/internal/usecase/opslog"
)

// referenceRoutes maps URL path segments onto reference kinds.
var referenceRoutes = map[string]record.Kind{
	"agencies":               record.KindAgency,
	"assignments":            record.KindAssignment,
	"locations":              record.KindLocation,
	"observation_categories": record.KindObservationCategory,
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.ListEvents(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, records)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.svc.CreateEvent(r.Context(), fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, rec)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.svc.UpdateEvent(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, rec)
}

func (s *Server) removeEvent(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.RemoveEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, rec)
}

func (s *Server) listObservations(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.ListObservations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, records)
}

func (s *Server) createObservation(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.svc.CreateObservation(r.Context(), fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, rec)
}

func (s *Server) updateObservation(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.svc.UpdateObservation(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, rec)
}

func (s *Server) removeObservation(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.RemoveObservation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, rec)
}

func (s *Server) listReference(kind record.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.svc.ListReference(r.Context(), kind, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeList(w, r, records)
	}
}

func (s *Server) createReference(kind record.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := decodeFields(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		rec, err := s.svc.CreateReference(r.Context(), kind, fields)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeRecord(w, rec)
	}
}

func (s *Server) updateReference(kind record.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := decodeFields(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		rec, err := s.svc.UpdateReference(r.Context(), kind, chi.URLParam(r, "id"), fields)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeRecord(w, rec)
	}
}

func (s *Server) removeReference(kind record.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := s.svc.RemoveReference(r.Context(), kind, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeRecord(w, rec)
	}
}

type purgeRequest struct {
	Table string `json:"table"`
}

// adminPurge physically clears a mutable table. The reference tables are
// deliberately not purgeable; history joins depend on them.
func (s *Server) adminPurge(w http.ResponseWriter, r *http.Request) {
	var req purgeRequest
	if err := decodeInto(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var err error
	switch req.Table {
	case "events":
		err = s.svc.PurgeEvents(r.Context())
	case "observations":
		err = s.svc.PurgeObservations(r.Context())
	default:
		writeError(w, r, &record.ValidationError{Field: "table", Reason: "must be events or observations"})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": []opslog.Record{}})
}
