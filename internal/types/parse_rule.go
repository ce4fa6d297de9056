package types

import (
	"time"

	"gorm.io/datatypes"
)

// ParseRule maps a raw ingestion string to an attribute type, optionally
// qualified by context tags. RawKey is the NormalizeParseKey form of Raw
// and is the lookup key.
type ParseRule struct {
	ID              string                      `gorm:"primaryKey" json:"id"`
	Raw             string                      `gorm:"column:raw;not null" json:"raw"`
	RawKey          string                      `gorm:"column:raw_key;not null;uniqueIndex" json:"raw_key"`
	AttributeTypeID string                      `gorm:"column:attribute_type_id;not null;index" json:"attribute_type_id"`
	UnitCode        string                      `gorm:"column:unit_code" json:"unit_code,omitempty"`
	ContextTagIDs   datatypes.JSONSlice[string] `gorm:"column:context_tag_ids" json:"context_tag_ids,omitempty"`
	Notes           string                      `gorm:"column:notes" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	Source    string    `gorm:"column:source" json:"source,omitempty"`
}

func (ParseRule) TableName() string { return "parse_rule" }
