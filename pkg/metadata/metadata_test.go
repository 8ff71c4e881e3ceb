package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatus(t *testing.T) {
	tests := []struct {
		input         string
		expected      Status
		expectedError bool
	}{
		{"active", StatusActive, false},
		{"  CLOSED ", StatusClosed, false},
		{"", StatusActive, false},
		{"in-transit", "", true},
		{"maintenance", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := NewStatus(tt.input)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestNormalizeLegacyStatus(t *testing.T) {
	tests := map[string]Status{
		"in-transit":  StatusActive,
		"maintenance": StatusInactive,
		"completed":   StatusClosed,
		"active":      StatusActive,
		"inactive":    StatusInactive,
	}

	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			status, err := NormalizeLegacyStatus(input)
			assert.NoError(t, err)
			assert.Equal(t, expected, status)
		})
	}

	_, err := NormalizeLegacyStatus("lost")
	assert.Error(t, err)
}

func TestNewEventType(t *testing.T) {
	tests := []struct {
		input         string
		expected      EventType
		suggested     bool
		expectedError bool
	}{
		{"gate-in", EventGateIn, true, false},
		{"Gate In", EventGateIn, true, false},
		{"  gate_out ", EventGateOut, true, false},
		{"fumigation", EventType("fumigation"), false, false},
		{"   ", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			eventType, err := NewEventType(tt.input)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, eventType)
			assert.Equal(t, tt.suggested, eventType.IsSuggested())
		})
	}
}

func TestNewTaxID(t *testing.T) {
	tests := []struct {
		input         string
		expected      string
		expectedError bool
	}{
		{"12.345.678/0001-95", "12345678000195", false},
		{"12345678000195", "12345678000195", false},
		{"1234", "", true},
		{"12.345.678/0001-955", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			taxID, err := NewTaxID(tt.input)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, taxID)
		})
	}
}

func TestNewInternalCode(t *testing.T) {
	tests := []struct {
		name            string
		typeCode        string
		containerNumber string
		expected        string
	}{
		{"Basic Case", "20dc", "MSCU1234567", "CNT-20DC-4567"},
		{"Short number", "40HC", "ab1", "CNT-40HC-AB1"},
		{"Separators are dropped", "REEF", "TGHU 87-65", "CNT-REEF-8765"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := NewInternalCode(tt.typeCode, tt.containerNumber)
			assert.Equal(t, tt.expected, code.Generate())
		})
	}
}
