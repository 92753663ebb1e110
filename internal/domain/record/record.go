package record

import "strings"

// Kind identifies one of the stored entity kinds. It is a closed set;
// anything else is rejected at the validation boundary.
type Kind string

const (
	KindEvent               Kind = "event"
	KindObservation         Kind = "observation"
	KindAgency              Kind = "agency"
	KindAssignment          Kind = "assignment"
	KindLocation            Kind = "location"
	KindObservationCategory Kind = "observation_category"
)

// Kinds lists every known kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindEvent,
		KindObservation,
		KindAgency,
		KindAssignment,
		KindLocation,
		KindObservationCategory,
	}
}

// ParseKind maps an external kind name onto the closed set.
func ParseKind(name string) (Kind, bool) {
	switch Kind(strings.TrimSpace(strings.ToLower(name))) {
	case KindEvent:
		return KindEvent, true
	case KindObservation:
		return KindObservation, true
	case KindAgency:
		return KindAgency, true
	case KindAssignment:
		return KindAssignment, true
	case KindLocation:
		return KindLocation, true
	case KindObservationCategory:
		return KindObservationCategory, true
	default:
		return "", false
	}
}

// Reference reports whether the kind is low-churn reference data. Reference
// kinds publish an empty signal on change; dashboards refetch the whole list
// instead of patching incrementally.
func (k Kind) Reference() bool {
	switch k {
	case KindAgency, KindAssignment, KindLocation, KindObservationCategory:
		return true
	default:
		return false
	}
}

// Action names a committed mutation.
type Action string

const (
	ActionNew    Action = "new"
	ActionEdit   Action = "edit"
	ActionRemove Action = "remove"
)

// EventType returns the change-event channel name for a mutation on kind.
// Payload-carrying kinds use new_/edit_/remove_<kind>; reference kinds
// collapse every action into a single <kind>_update signal.
func EventType(k Kind, a Action) string {
	if k.Reference() {
		return string(k) + "_update"
	}
	return string(a) + "_" + string(k)
}

// ParseEventType inverts EventType. The second result is the action for
// payload-carrying kinds and is empty for reference signals.
func ParseEventType(eventType string) (Kind, Action, bool) {
	if kind, ok := strings.CutSuffix(eventType, "_update"); ok {
		if k, known := ParseKind(kind); known && k.Reference() {
			return k, "", true
		}
	}
	for _, a := range []Action{ActionNew, ActionEdit, ActionRemove} {
		if kind, ok := strings.CutPrefix(eventType, string(a)+"_"); ok {
			if k, known := ParseKind(kind); known && !k.Reference() {
				return k, a, true
			}
		}
	}
	return "", "", false
}

// ChangeEvent is a typed notification broadcast after a committed mutation.
// Payload is the full external representation of the mutated record, or nil
// for reference-data signals. An empty Room means broadcast.
type ChangeEvent struct {
	Type    string         `json:"type"`
	Room    string         `json:"room,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}
