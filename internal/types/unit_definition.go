package types

import (
	"time"
)

// UnitDefinition is a globally curated unit of measure. Units sharing a
// Dimension are interconvertible through the dimension's canonical unit:
// canonical = (raw + Offset) * ToCanonicalFactor. The canonical unit of a
// dimension carries factor 1 and offset 0.
type UnitDefinition struct {
	ID                string  `gorm:"primaryKey" json:"id"`
	Code              string  `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Name              string  `gorm:"column:name" json:"name,omitempty"`
	Dimension         string  `gorm:"column:dimension;index" json:"dimension,omitempty"`
	CanonicalUnitCode string  `gorm:"column:canonical_unit_code" json:"canonical_unit_code,omitempty"`
	ToCanonicalFactor float64 `gorm:"column:to_canonical_factor;default:1" json:"to_canonical_factor"`
	Offset            float64 `gorm:"column:offset_value;default:0" json:"offset"`
	Status            Status  `gorm:"column:status;not null;index" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	Source    string    `gorm:"column:source" json:"source,omitempty"`
}

func (UnitDefinition) TableName() string { return "unit_definition" }

// ToCanonical converts a value expressed in this unit into the dimension's
// canonical unit.
func (u *UnitDefinition) ToCanonical(v float64) float64 {
	factor := u.ToCanonicalFactor
	if factor == 0 {
		factor = 1
	}
	return (v + u.Offset) * factor
}

// FromCanonical is the inverse of ToCanonical.
func (u *UnitDefinition) FromCanonical(canonical float64) float64 {
	factor := u.ToCanonicalFactor
	if factor == 0 {
		factor = 1
	}
	return canonical/factor - u.Offset
}
