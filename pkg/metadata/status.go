package metadata

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusClosed   Status = "closed"
)

// Values written by the alternate detail screen before the status set was unified.
const (
	legacyStatusInTransit   = "in-transit"
	legacyStatusCompleted   = "completed"
	legacyStatusMaintenance = "maintenance"
)

func NewStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if status == "" {
		return StatusActive, nil
	}
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status: %s, only valid values are: %s, %s, %s", value, StatusActive, StatusInactive, StatusClosed)
	}
	return status, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusClosed:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// NormalizeLegacyStatus maps a stored status of either enumeration onto the
// canonical one. It is used by the data migration and never on writes.
func NormalizeLegacyStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case legacyStatusInTransit:
		return StatusActive, nil
	case legacyStatusMaintenance:
		return StatusInactive, nil
	case legacyStatusCompleted:
		return StatusClosed, nil
	}

	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return status, nil
}

func Statuses() []Status {
	return []Status{StatusActive, StatusInactive, StatusClosed}
}
