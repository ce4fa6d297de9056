package types

import (
	"time"

	"gorm.io/datatypes"
)

// Tag is a globally curated free-form qualifier term. Label is stored in
// normalized form and is unique. A tag absorbed by a merge keeps its row:
// status flips to DEPRECATED and MergedIntoID points at the absorbing tag,
// forming the merge chain lookups resolve through.
type Tag struct {
	ID          string                      `gorm:"primaryKey" json:"id"`
	Label       string                      `gorm:"column:label;not null;uniqueIndex" json:"label"`
	DisplayName string                      `gorm:"column:display_name" json:"display_name,omitempty"`
	Pos         PartOfSpeech                `gorm:"column:pos" json:"pos,omitempty"`
	Synonyms    datatypes.JSONSlice[string] `gorm:"column:synonyms" json:"synonyms,omitempty"`
	Status      Status                      `gorm:"column:status;not null;index" json:"status"`
	AuditStatus AuditStatus                 `gorm:"column:audit_status;not null;index" json:"audit_status"`
	Notes       string                      `gorm:"column:notes" json:"notes,omitempty"`
	MergedIntoID string                     `gorm:"column:merged_into_id;index" json:"merged_into_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	Source    string    `gorm:"column:source" json:"source,omitempty"`
}

func (Tag) TableName() string { return "tag" }

// WorkspaceTag is a workspace's private draft tag. GlobalTagID links to
// its promoted global counterpart.
type WorkspaceTag struct {
	ID          string                      `gorm:"primaryKey" json:"id"`
	WorkspaceID string                      `gorm:"column:workspace_id;not null;index:idx_ws_tag,unique,priority:1" json:"workspace_id"`
	Label       string                      `gorm:"column:label;not null;index:idx_ws_tag,unique,priority:2" json:"label"`
	DisplayName string                      `gorm:"column:display_name" json:"display_name,omitempty"`
	Pos         PartOfSpeech                `gorm:"column:pos" json:"pos,omitempty"`
	Synonyms    datatypes.JSONSlice[string] `gorm:"column:synonyms" json:"synonyms,omitempty"`
	Status      Status                      `gorm:"column:status;not null;index" json:"status"`
	AuditStatus AuditStatus                 `gorm:"column:audit_status;not null;index" json:"audit_status"`
	Notes       string                      `gorm:"column:notes" json:"notes,omitempty"`
	GlobalTagID string                      `gorm:"column:global_tag_id;index" json:"global_tag_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	Source    string    `gorm:"column:source" json:"source,omitempty"`
}

func (WorkspaceTag) TableName() string { return "workspace_tag" }
