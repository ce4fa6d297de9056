package types

import (
	"time"

	"gorm.io/datatypes"
)

// ValidationRules bounds numeric values recorded under an attribute type.
type ValidationRules struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Precision *int     `json:"precision,omitempty"`
}

// AttributeType is a globally curated measurable or brand attribute
// definition. NameKey is the lowercased trim of Name and is what the
// scope-level uniqueness index hangs off.
type AttributeType struct {
	ID              string                                `gorm:"primaryKey" json:"id"`
	Name            string                                `gorm:"column:name;not null" json:"name"`
	NameKey         string                                `gorm:"column:name_key;not null;uniqueIndex" json:"-"`
	Kind            AttributeKind                         `gorm:"column:kind;not null;index" json:"kind"`
	ValueType       ValueType                             `gorm:"column:value_type;not null;index" json:"value_type"`
	Dimension       string                                `gorm:"column:dimension;index" json:"dimension,omitempty"`
	CanonicalUnit   string                                `gorm:"column:canonical_unit" json:"canonical_unit,omitempty"`
	AllowedUnits    datatypes.JSONSlice[string]           `gorm:"column:allowed_units" json:"allowed_units,omitempty"`
	Synonyms        datatypes.JSONSlice[string]           `gorm:"column:synonyms" json:"synonyms,omitempty"`
	Status          Status                                `gorm:"column:status;not null;index" json:"status"`
	AuditStatus     AuditStatus                           `gorm:"column:audit_status;not null;index" json:"audit_status"`
	AppliesTo       AppliesTo                             `gorm:"column:applies_to;not null;index" json:"applies_to"`
	UsageHints      datatypes.JSONSlice[string]           `gorm:"column:usage_hints" json:"usage_hints,omitempty"`
	ValidationRules datatypes.JSONType[*ValidationRules]  `gorm:"column:validation_rules" json:"validation_rules,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	Source    string    `gorm:"column:source" json:"source,omitempty"`
}

func (AttributeType) TableName() string { return "attribute_type" }

// WorkspaceAttributeType is a workspace's private draft of an attribute
// type. GlobalAttributeTypeID is set once the draft has been promoted.
type WorkspaceAttributeType struct {
	ID                    string                                `gorm:"primaryKey" json:"id"`
	WorkspaceID           string                                `gorm:"column:workspace_id;not null;index:idx_ws_attribute_type,unique,priority:1" json:"workspace_id"`
	Name                  string                                `gorm:"column:name;not null" json:"name"`
	NameKey               string                                `gorm:"column:name_key;not null;index:idx_ws_attribute_type,unique,priority:2" json:"-"`
	Kind                  AttributeKind                         `gorm:"column:kind;not null;index" json:"kind"`
	ValueType             ValueType                             `gorm:"column:value_type;not null;index" json:"value_type"`
	Dimension             string                                `gorm:"column:dimension;index" json:"dimension,omitempty"`
	CanonicalUnit         string                                `gorm:"column:canonical_unit" json:"canonical_unit,omitempty"`
	AllowedUnits          datatypes.JSONSlice[string]           `gorm:"column:allowed_units" json:"allowed_units,omitempty"`
	Synonyms              datatypes.JSONSlice[string]           `gorm:"column:synonyms" json:"synonyms,omitempty"`
	Status                Status                                `gorm:"column:status;not null;index" json:"status"`
	AuditStatus           AuditStatus                           `gorm:"column:audit_status;not null;index" json:"audit_status"`
	AppliesTo             AppliesTo                             `gorm:"column:applies_to;not null;index" json:"applies_to"`
	UsageHints            datatypes.JSONSlice[string]           `gorm:"column:usage_hints" json:"usage_hints,omitempty"`
	ValidationRules       datatypes.JSONType[*ValidationRules]  `gorm:"column:validation_rules" json:"validation_rules,omitempty"`
	GlobalAttributeTypeID string                                `gorm:"column:global_attribute_type_id;index" json:"global_attribute_type_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	Source    string    `gorm:"column:source" json:"source,omitempty"`
}

func (WorkspaceAttributeType) TableName() string { return "workspace_attribute_type" }
