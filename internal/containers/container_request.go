package containers

import (
	"strings"
	"time"

	"github.com/Marcelo-Rosas/container-storage/internal/clients"
	"github.com/Marcelo-Rosas/container-storage/internal/forms"
	"github.com/Marcelo-Rosas/container-storage/pkg/metadata"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const dateLayout = "2006-01-02"

type CreateContainerRequest struct {
	ClientID          string                       `json:"client_id" binding:"omitempty,uuid"`
	NewClient         *clients.CreateClientRequest `json:"new_client"`
	ContainerNumber   string                       `json:"container_number" binding:"required,max=20"`
	ContainerTypeCode string                       `json:"container_type_code" binding:"required,max=10"`
	Status            string                       `json:"status" binding:"omitempty,container_status"`
	StartDate         string                       `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate           *string                      `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	InternalCode      *string                      `json:"internal_code" binding:"omitempty,max=30"`
	BLNumber          *string                      `json:"bl_number" binding:"omitempty,max=50"`
	YardLocation      *string                      `json:"yard_location" binding:"omitempty,max=50"`
	Volume            *float64                     `json:"volume" binding:"omitempty,gte=0"`
	BaseCost          *float64                     `json:"base_cost" binding:"omitempty,gte=0"`
	MeasurementDay    *int                         `json:"measurement_day" binding:"omitempty,min=1,max=31"`
	Notes             *string                      `json:"notes" binding:"omitempty,max=1000"`
}

type UpdateContainerRequest struct {
	ClientID          *string  `json:"client_id" binding:"omitempty,uuid"`
	ContainerNumber   *string  `json:"container_number" binding:"omitempty,max=20"`
	ContainerTypeCode *string  `json:"container_type_code" binding:"omitempty,max=10"`
	Status            *string  `json:"status" binding:"omitempty,container_status"`
	StartDate         *string  `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate           *string  `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	InternalCode      *string  `json:"internal_code" binding:"omitempty,max=30"`
	BLNumber          *string  `json:"bl_number" binding:"omitempty,max=50"`
	YardLocation      *string  `json:"yard_location" binding:"omitempty,max=50"`
	Volume            *float64 `json:"volume" binding:"omitempty,gte=0"`
	BaseCost          *float64 `json:"base_cost" binding:"omitempty,gte=0"`
	MeasurementDay    *int     `json:"measurement_day" binding:"omitempty,min=1,max=31"`
	Notes             *string  `json:"notes" binding:"omitempty,max=1000"`
}

var duplicateFields = map[string]forms.Violations{
	"containers_container_number_key": {"container_number": "already exists"},
}

// Validate checks what the binding tags cannot: exactly one way of choosing
// the client and the date range.
func (r CreateContainerRequest) Validate() forms.Violations {
	violations := forms.Violations{}

	switch {
	case r.ClientID == "" && r.NewClient == nil:
		violations.Add("client_id", "is required")
	case r.ClientID != "" && r.NewClient != nil:
		violations.Add("client_id", "choose an existing client or create a new one, not both")
	}
	if r.NewClient != nil {
		for field, message := range r.NewClient.Validate() {
			violations.Add("new_client."+field, message)
		}
	}
	if strings.TrimSpace(r.ContainerNumber) == "" {
		violations.Add("container_number", "is required")
	}

	start, startErr := time.Parse(dateLayout, r.StartDate)
	end, endErr := parseOptionalDate(r.EndDate)
	if startErr == nil && endErr == nil && end != nil && end.Before(start) {
		violations.Add("end_date", "must not be before start_date")
	}

	return violations
}

// ToContainer builds the row to insert. Blank text and zero numbers become
// NULL, a missing status becomes active and a missing internal code is
// generated from the type and the container number.
func (r CreateContainerRequest) ToContainer(clientID string, createdBy string) (*models.Container, error) {
	status, err := metadata.NewStatus(r.Status)
	if err != nil {
		return nil, forms.NewValidationError("status", "must be one of active, inactive, closed")
	}
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return nil, forms.NewValidationError("start_date", "must be a date in YYYY-MM-DD format")
	}
	end, err := parseOptionalDate(r.EndDate)
	if err != nil {
		return nil, forms.NewValidationError("end_date", "must be a date in YYYY-MM-DD format")
	}

	container := &models.Container{
		ContainerNumber:   normalizeNumber(r.ContainerNumber),
		BLNumber:          optionalText(r.BLNumber),
		ClientID:          clientID,
		ContainerTypeCode: normalizeNumber(r.ContainerTypeCode),
		Status:            status.String(),
		StartDate:         start,
		EndDate:           end,
		YardLocation:      optionalText(r.YardLocation),
		Volume:            optionalAmount(r.Volume),
		BaseCost:          optionalAmount(r.BaseCost),
		MeasurementDay:    optionalDay(r.MeasurementDay),
		Notes:             optionalText(r.Notes),
		CreatedBy:         &createdBy,
	}

	if code := optionalText(r.InternalCode); code != nil {
		container.InternalCode = *code
	} else {
		internalCode := metadata.NewInternalCode(container.ContainerTypeCode, container.ContainerNumber)
		container.InternalCode = internalCode.Generate()
	}

	return container, nil
}

// Changes returns the columns to update against existing, validating the
// resulting date range.
func (r UpdateContainerRequest) Changes(existing *models.Container) (goqu.Record, forms.Violations) {
	updates := goqu.Record{}
	violations := forms.Violations{}

	start := existing.StartDate
	end := existing.EndDate

	if r.ClientID != nil {
		updates["client_id"] = *r.ClientID
	}
	if r.ContainerNumber != nil {
		if number := normalizeNumber(*r.ContainerNumber); number == "" {
			violations.Add("container_number", "is required")
		} else {
			updates["container_number"] = number
		}
	}
	if r.ContainerTypeCode != nil {
		if code := normalizeNumber(*r.ContainerTypeCode); code == "" {
			violations.Add("container_type_code", "is required")
		} else {
			updates["container_type_code"] = code
		}
	}
	if r.Status != nil {
		status, err := metadata.NewStatus(*r.Status)
		if err != nil {
			violations.Add("status", "must be one of active, inactive, closed")
		} else {
			updates["status"] = status.String()
		}
	}
	if r.StartDate != nil {
		parsed, err := time.Parse(dateLayout, *r.StartDate)
		if err != nil {
			violations.Add("start_date", "must be a date in YYYY-MM-DD format")
		} else {
			start = parsed
			updates["start_date"] = parsed
		}
	}
	if r.EndDate != nil {
		parsed, err := parseOptionalDate(r.EndDate)
		if err != nil {
			violations.Add("end_date", "must be a date in YYYY-MM-DD format")
		} else {
			end = parsed
			updates["end_date"] = parsed
		}
	}
	if end != nil && end.Before(start) {
		violations.Add("end_date", "must not be before start_date")
	}

	if r.InternalCode != nil {
		if code := optionalText(r.InternalCode); code != nil {
			updates["internal_code"] = *code
		}
	}
	if r.BLNumber != nil {
		updates["bl_number"] = optionalText(r.BLNumber)
	}
	if r.YardLocation != nil {
		updates["yard_location"] = optionalText(r.YardLocation)
	}
	if r.Notes != nil {
		updates["notes"] = optionalText(r.Notes)
	}
	if r.Volume != nil {
		updates["volume"] = optionalAmount(r.Volume)
	}
	if r.BaseCost != nil {
		updates["base_cost"] = optionalAmount(r.BaseCost)
	}
	if r.MeasurementDay != nil {
		updates["measurement_day"] = optionalDay(r.MeasurementDay)
	}

	return updates, violations
}

func normalizeNumber(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optionalAmount(value *float64) *float64 {
	if value == nil || *value == 0 {
		return nil
	}
	return value
}

func optionalDay(value *int) *int {
	if value == nil || *value == 0 {
		return nil
	}
	return value
}
