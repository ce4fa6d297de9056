package types

import (
	"time"

	"gorm.io/datatypes"
)

// LabColor is a CIELAB color coordinate.
type LabColor struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// ValueCodes holds external coding-system identifiers for an enumerated
// value (color systems mostly).
type ValueCodes struct {
	Hex     string    `json:"hex,omitempty"`
	RAL     string    `json:"ral,omitempty"`
	Pantone string    `json:"pantone,omitempty"`
	Lab     *LabColor `json:"lab,omitempty"`
}

// AttributeValue is a globally curated enumerated value under an
// attribute type. ValueKey is the lowercased trim of Value; uniqueness is
// per attribute type.
type AttributeValue struct {
	ID              string                           `gorm:"primaryKey" json:"id"`
	AttributeTypeID string                           `gorm:"column:attribute_type_id;not null;index:idx_attribute_value,unique,priority:1" json:"attribute_type_id"`
	Value           string                           `gorm:"column:value;not null" json:"value"`
	ValueKey        string                           `gorm:"column:value_key;not null;index:idx_attribute_value,unique,priority:2" json:"-"`
	Synonyms        datatypes.JSONSlice[string]      `gorm:"column:synonyms" json:"synonyms,omitempty"`
	Codes           datatypes.JSONType[*ValueCodes]  `gorm:"column:codes" json:"codes,omitempty"`
	Status          Status                           `gorm:"column:status;not null;index" json:"status"`
	AuditStatus     AuditStatus                      `gorm:"column:audit_status;not null;index" json:"audit_status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	Source    string    `gorm:"column:source" json:"source,omitempty"`
}

func (AttributeValue) TableName() string { return "attribute_value" }

// WorkspaceAttributeValue is a workspace draft of an enumerated value.
type WorkspaceAttributeValue struct {
	ID                     string                           `gorm:"primaryKey" json:"id"`
	WorkspaceID            string                           `gorm:"column:workspace_id;not null;index:idx_ws_attribute_value,unique,priority:1" json:"workspace_id"`
	AttributeTypeID        string                           `gorm:"column:attribute_type_id;not null;index:idx_ws_attribute_value,unique,priority:2" json:"attribute_type_id"`
	Value                  string                           `gorm:"column:value;not null" json:"value"`
	ValueKey               string                           `gorm:"column:value_key;not null;index:idx_ws_attribute_value,unique,priority:3" json:"-"`
	Synonyms               datatypes.JSONSlice[string]      `gorm:"column:synonyms" json:"synonyms,omitempty"`
	Codes                  datatypes.JSONType[*ValueCodes]  `gorm:"column:codes" json:"codes,omitempty"`
	Status                 Status                           `gorm:"column:status;not null;index" json:"status"`
	AuditStatus            AuditStatus                      `gorm:"column:audit_status;not null;index" json:"audit_status"`
	GlobalAttributeValueID string                           `gorm:"column:global_attribute_value_id;index" json:"global_attribute_value_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	Source    string    `gorm:"column:source" json:"source,omitempty"`
}

func (WorkspaceAttributeValue) TableName() string { return "workspace_attribute_value" }
