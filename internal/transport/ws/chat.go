package ws

import "netcontrol/internal/domain/record"

// busEvent shapes a chat frame as a room-scoped change event so it rides
// the same bus and wire format as record mutations.
func busEvent(eventType, room, text string) record.ChangeEvent {
	return record.ChangeEvent{
		Type:    eventType,
		Room:    room,
		Payload: map[string]any{"msg": text},
	}
}
