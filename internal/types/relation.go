package types

import "time"

// TagRelation links two global tags. The composite unique index is what
// the merge engine's duplicate cleanup leans on.
type TagRelation struct {
	ID           string          `gorm:"primaryKey" json:"id"`
	FromTagID    string          `gorm:"column:from_tag_id;not null;index:idx_tag_relation,unique,priority:1" json:"from_tag_id"`
	ToTagID      string          `gorm:"column:to_tag_id;not null;index:idx_tag_relation,unique,priority:2" json:"to_tag_id"`
	RelationType TagRelationType `gorm:"column:relation_type;not null;index:idx_tag_relation,unique,priority:3" json:"relation_type"`
	Confidence   *float64        `gorm:"column:confidence" json:"confidence,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	Source    string    `gorm:"column:source" json:"source,omitempty"`
}

func (TagRelation) TableName() string { return "tag_relation" }

// AttributeRelation links two global attribute types.
type AttributeRelation struct {
	ID              string                `gorm:"primaryKey" json:"id"`
	FromAttributeID string                `gorm:"column:from_attribute_id;not null;index:idx_attribute_relation,unique,priority:1" json:"from_attribute_id"`
	ToAttributeID   string                `gorm:"column:to_attribute_id;not null;index:idx_attribute_relation,unique,priority:2" json:"to_attribute_id"`
	RelationType    AttributeRelationType `gorm:"column:relation_type;not null;index:idx_attribute_relation,unique,priority:3" json:"relation_type"`
	Confidence      *float64              `gorm:"column:confidence" json:"confidence,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	Source    string    `gorm:"column:source" json:"source,omitempty"`
}

func (AttributeRelation) TableName() string { return "attribute_relation" }
