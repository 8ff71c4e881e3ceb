package metadata

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidEventType = errors.New("invalid event type")

type EventType string

const (
	EventGateIn      EventType = "gate-in"
	EventGateOut     EventType = "gate-out"
	EventLoading     EventType = "loading"
	EventDischarge   EventType = "discharge"
	EventInspection  EventType = "inspection"
	EventMaintenance EventType = "maintenance"
)

const maxEventTypeLength = 50

// IsSuggested reports whether the type is one of the predefined ones.
func (e EventType) IsSuggested() bool {
	switch e {
	case EventGateIn, EventGateOut, EventLoading, EventDischarge, EventInspection, EventMaintenance:
		return true
	default:
		return false
	}
}

// NewEventType accepts free-form event types and normalizes them to
// lowercase kebab-case, so "Gate In" and "gate_in" both become "gate-in".
func NewEventType(value string) (EventType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer(" ", "-", "_", "-").Replace(normalized)
	if normalized == "" {
		return "", fmt.Errorf("%w: cannot be empty", ErrInvalidEventType)
	}
	if len(normalized) > maxEventTypeLength {
		return "", fmt.Errorf("%w: cannot be longer than %d characters", ErrInvalidEventType, maxEventTypeLength)
	}

	return EventType(normalized), nil
}

func SuggestedEventTypes() []EventType {
	return []EventType{EventGateIn, EventGateOut, EventLoading, EventDischarge, EventInspection, EventMaintenance}
}

func (e EventType) String() string {
	return string(e)
}
