package models

type ContainerType struct {
	Code            string   `json:"code" db:"code" binding:"required,alphanum,max=10"`
	Name            string   `json:"name" db:"name" binding:"required"`
	DefaultBaseCost *float64 `json:"default_base_cost" db:"default_base_cost" binding:"omitempty,gte=0"`
}
