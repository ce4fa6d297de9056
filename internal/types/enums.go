package types

// Status is the curation lifecycle state shared by all vocabulary entities.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusProposed   Status = "PROPOSED"
	StatusDeprecated Status = "DEPRECATED"
)

// AuditStatus tracks human review of a vocabulary entity.
type AuditStatus string

const (
	AuditPendingReview AuditStatus = "PENDING_REVIEW"
	AuditReviewed      AuditStatus = "REVIEWED"
	AuditFlagged       AuditStatus = "FLAGGED"
)

// AttributeKind distinguishes measurable quantities from brand/identity
// attributes.
type AttributeKind string

const (
	KindPhysical AttributeKind = "PHYSICAL"
	KindBrand    AttributeKind = "BRAND"
)

// ValueType is the typing of values recorded under an attribute type.
type ValueType string

const (
	ValueNumber  ValueType = "NUMBER"
	ValueString  ValueType = "STRING"
	ValueEnum    ValueType = "ENUM"
	ValueBoolean ValueType = "BOOLEAN"
	ValueRef     ValueType = "REF"
)

// AppliesTo scopes which entity families an attribute type describes.
type AppliesTo string

const (
	AppliesMaterial AppliesTo = "MATERIAL"
	AppliesService  AppliesTo = "SERVICE"
	AppliesResource AppliesTo = "RESOURCE"
	AppliesBoth     AppliesTo = "BOTH"
)

// PartOfSpeech classifies a tag grammatically.
type PartOfSpeech string

const (
	PosNoun PartOfSpeech = "NOUN"
	PosVerb PartOfSpeech = "VERB"
)

// TagRelationType relates two tags.
type TagRelationType string

const (
	TagRelAlias    TagRelationType = "ALIAS"
	TagRelBroader  TagRelationType = "BROADER"
	TagRelNarrower TagRelationType = "NARROWER"
	TagRelRelated  TagRelationType = "RELATED"
)

func (t TagRelationType) Valid() bool {
	switch t {
	case TagRelAlias, TagRelBroader, TagRelNarrower, TagRelRelated:
		return true
	}
	return false
}

// AttributeRelationType relates two attribute types.
type AttributeRelationType string

const (
	AttrRelAlias    AttributeRelationType = "ALIAS"
	AttrRelReplaces AttributeRelationType = "REPLACES"
	AttrRelRelated  AttributeRelationType = "RELATED"
)

func (t AttributeRelationType) Valid() bool {
	switch t {
	case AttrRelAlias, AttrRelReplaces, AttrRelRelated:
		return true
	}
	return false
}

// Scope says whether an entity lives in the shared global registry or a
// workspace's private draft registry.
type Scope string

const (
	ScopeGlobal    Scope = "GLOBAL"
	ScopeWorkspace Scope = "WORKSPACE"
)

// PageArgs is the pagination contract every list operation accepts.
type PageArgs struct {
	Page    int
	PerPage int
}

const defaultPerPage = 50

// Limit returns the effective page size.
func (p PageArgs) Limit() int {
	if p.PerPage <= 0 {
		return defaultPerPage
	}
	return p.PerPage
}

// Offset returns the row offset for the requested page (1-based).
func (p PageArgs) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit()
}
