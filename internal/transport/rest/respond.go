package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"netcontrol/internal/bootstrap/logging"
	"netcontrol/internal/domain/record"
	"netcontrol/internal/errs"
	"netcontrol/internal/usecase/opslog"
)

// listEnvelope matches what the dashboard tables consume: the row data plus
// the draw/records bookkeeping fields.
type listEnvelope struct {
	Draw            int             `json:"draw"`
	RecordsTotal    int             `json:"recordsTotal"`
	RecordsFiltered int             `json:"recordsFiltered"`
	Data            []opslog.Record `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeList(w http.ResponseWriter, r *http.Request, records []opslog.Record) {
	draw := 1
	if v := r.URL.Query().Get("draw"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			draw = parsed
		}
	}
	writeJSON(w, http.StatusOK, listEnvelope{
		Draw:            draw,
		RecordsTotal:    len(records),
		RecordsFiltered: len(records),
		Data:            records,
	})
}

func writeRecord(w http.ResponseWriter, rec opslog.Record) {
	writeJSON(w, http.StatusOK, map[string]any{"data": []opslog.Record{rec}})
}

// writeError maps domain failures onto status codes. Every failure is a
// structured, inspectable response; nothing is silently dropped.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case record.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
	case errors.Is(err, record.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "record not found"})
	default:
		logging.Error(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("err", errs.Loggable(err)),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "operation failed, retry"})
	}
}

func decodeFields(r *http.Request) (map[string]any, error) {
	var fields map[string]any
	if err := decodeInto(r, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func decodeInto(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &record.ValidationError{Reason: "malformed JSON body"}
	}
	return nil
}
