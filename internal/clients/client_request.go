package clients

import (
	"strings"

	"github.com/Marcelo-Rosas/container-storage/internal/forms"
	"github.com/Marcelo-Rosas/container-storage/pkg/metadata"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type CreateClientRequest struct {
	Name      string  `json:"name" binding:"required,max=200"`
	TradeName *string `json:"trade_name" binding:"omitempty,max=200"`
	TaxID     string  `json:"tax_id" binding:"required,taxid"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone" binding:"omitempty,max=30"`
	Address   *string `json:"address" binding:"omitempty,max=300"`
}

type UpdateClientRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=200"`
	TradeName *string `json:"trade_name" binding:"omitempty,max=200"`
	TaxID     *string `json:"tax_id" binding:"omitempty,taxid"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone" binding:"omitempty,max=30"`
	Address   *string `json:"address" binding:"omitempty,max=300"`
}

type ListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

var duplicateFields = map[string]forms.Violations{
	"clients_tax_id_key": {"tax_id": "already registered"},
}

// Validate runs the checks binding tags cannot express.
func (r CreateClientRequest) Validate() forms.Violations {
	violations := forms.Violations{}
	if strings.TrimSpace(r.Name) == "" {
		violations.Add("name", "is required")
	}
	return violations
}

func (r CreateClientRequest) ToClient(ownerID string) *models.Client {
	return &models.Client{
		Name:      strings.TrimSpace(r.Name),
		TradeName: optionalText(r.TradeName),
		TaxID:     metadata.NormalizeTaxID(r.TaxID),
		Email:     optionalText(r.Email),
		Phone:     optionalText(r.Phone),
		Address:   optionalText(r.Address),
		OwnerID:   ownerID,
	}
}

func (r UpdateClientRequest) Validate() forms.Violations {
	violations := forms.Violations{}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		violations.Add("name", "is required")
	}
	return violations
}

// Changes returns the columns to update. Blank optional fields clear the
// stored value.
func (r UpdateClientRequest) Changes() goqu.Record {
	updates := goqu.Record{}

	if r.Name != nil {
		updates["name"] = strings.TrimSpace(*r.Name)
	}
	if r.TaxID != nil {
		updates["tax_id"] = metadata.NormalizeTaxID(*r.TaxID)
	}
	if r.TradeName != nil {
		updates["trade_name"] = optionalText(r.TradeName)
	}
	if r.Email != nil {
		updates["email"] = optionalText(r.Email)
	}
	if r.Phone != nil {
		updates["phone"] = optionalText(r.Phone)
	}
	if r.Address != nil {
		updates["address"] = optionalText(r.Address)
	}

	return updates
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
