package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vocabhub/vocab-backend/internal/ids"
	"github.com/vocabhub/vocab-backend/internal/pkg/ctxutil"
	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/pkg/logger"
	"github.com/vocabhub/vocab-backend/internal/repos"
	"github.com/vocabhub/vocab-backend/internal/types"
)

type TagRelationInput struct {
	FromTagID    string
	ToTagID      string
	RelationType types.TagRelationType
	Confidence   *float64
	Source       string
}

type AttributeRelationInput struct {
	FromAttributeID string
	ToAttributeID   string
	RelationType    types.AttributeRelationType
	Confidence      *float64
	Source          string
}

// RelationService curates the typed edges between global tags and between
// global attribute types. Creation is idempotent over the composite
// (from, to, type) key.
type RelationService interface {
	CreateTagRelation(ctx context.Context, tx *gorm.DB, input TagRelationInput) (*types.TagRelation, error)
	ListTagRelations(ctx context.Context, tx *gorm.DB, tagID string) ([]*types.TagRelation, error)
	DeleteTagRelation(ctx context.Context, tx *gorm.DB, relationID string) error

	CreateAttributeRelation(ctx context.Context, tx *gorm.DB, input AttributeRelationInput) (*types.AttributeRelation, error)
	ListAttributeRelations(ctx context.Context, tx *gorm.DB, attributeTypeID string) ([]*types.AttributeRelation, error)
	DeleteAttributeRelation(ctx context.Context, tx *gorm.DB, relationID string) error
}

type relationService struct {
	db           *gorm.DB
	log          *logger.Logger
	idGen        ids.Generator
	tagRepo      repos.TagRepo
	attrRepo     repos.AttributeTypeRepo
	tagRelRepo   repos.TagRelationRepo
	attrRelRepo  repos.AttributeRelationRepo
}

func NewRelationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	idGen ids.Generator,
	tagRepo repos.TagRepo,
	attrRepo repos.AttributeTypeRepo,
	tagRelRepo repos.TagRelationRepo,
	attrRelRepo repos.AttributeRelationRepo,
) RelationService {
	serviceLog := baseLog.With("service", "RelationService")
	return &relationService{
		db:          db,
		log:         serviceLog,
		idGen:       idGen,
		tagRepo:     tagRepo,
		attrRepo:    attrRepo,
		tagRelRepo:  tagRelRepo,
		attrRelRepo: attrRelRepo,
	}
}

func validConfidence(c *float64) bool {
	return c == nil || (*c >= 0 && *c <= 1)
}

func (rs *relationService) CreateTagRelation(ctx context.Context, tx *gorm.DB, input TagRelationInput) (*types.TagRelation, error) {
	if input.FromTagID == "" || input.ToTagID == "" {
		return nil, apperrors.Validationf("from and to tag ids are required")
	}
	if input.FromTagID == input.ToTagID {
		return nil, apperrors.Validationf("a tag cannot relate to itself")
	}
	if !input.RelationType.Valid() {
		return nil, apperrors.Validationf("unknown tag relation type %q", input.RelationType)
	}
	if !validConfidence(input.Confidence) {
		return nil, apperrors.Validationf("confidence must be between 0 and 1")
	}
	for _, id := range []string{input.FromTagID, input.ToTagID} {
		tag, err := rs.tagRepo.GetByID(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("load tag %s: %w", id, err)
		}
		if tag == nil {
			return nil, apperrors.NotFoundf("tag %s", id)
		}
	}

	key := repos.RelationKey{FromTagID: input.FromTagID, ToTagID: input.ToTagID, RelationType: input.RelationType}
	existing, err := rs.tagRelRepo.FindOneByKey(ctx, tx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	principal, _ := ctxutil.GetPrincipal(ctx)
	rel := &types.TagRelation{
		ID:           rs.idGen.NewID("tag_relation", "global"),
		FromTagID:    input.FromTagID,
		ToTagID:      input.ToTagID,
		RelationType: input.RelationType,
		Confidence:   input.Confidence,
		Source:       input.Source,
		CreatedBy:    principal.ID,
		UpdatedBy:    principal.ID,
	}
	if err := rs.tagRelRepo.Insert(ctx, tx, rel); err != nil {
		raced, findErr := rs.tagRelRepo.FindOneByKey(ctx, tx, key)
		if findErr == nil && raced != nil {
			return raced, nil
		}
		return nil, fmt.Errorf("insert tag relation: %w", err)
	}
	return rel, nil
}

func (rs *relationService) ListTagRelations(ctx context.Context, tx *gorm.DB, tagID string) ([]*types.TagRelation, error) {
	if tagID == "" {
		return nil, apperrors.Validationf("tag id is required")
	}
	return rs.tagRelRepo.ListTouchingTag(ctx, tx, tagID)
}

func (rs *relationService) DeleteTagRelation(ctx context.Context, tx *gorm.DB, relationID string) error {
	rel, err := rs.tagRelRepo.GetByID(ctx, tx, relationID)
	if err != nil {
		return err
	}
	if rel == nil {
		return apperrors.NotFoundf("tag relation %s", relationID)
	}
	return rs.tagRelRepo.DeleteByIDs(ctx, tx, []string{relationID})
}

func (rs *relationService) CreateAttributeRelation(ctx context.Context, tx *gorm.DB, input AttributeRelationInput) (*types.AttributeRelation, error) {
	if input.FromAttributeID == "" || input.ToAttributeID == "" {
		return nil, apperrors.Validationf("from and to attribute ids are required")
	}
	if input.FromAttributeID == input.ToAttributeID {
		return nil, apperrors.Validationf("an attribute type cannot relate to itself")
	}
	if !input.RelationType.Valid() {
		return nil, apperrors.Validationf("unknown attribute relation type %q", input.RelationType)
	}
	if !validConfidence(input.Confidence) {
		return nil, apperrors.Validationf("confidence must be between 0 and 1")
	}
	for _, id := range []string{input.FromAttributeID, input.ToAttributeID} {
		attr, err := rs.attrRepo.GetByID(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("load attribute type %s: %w", id, err)
		}
		if attr == nil {
			return nil, apperrors.NotFoundf("attribute type %s", id)
		}
	}

	existing, err := rs.attrRelRepo.FindOneByKey(ctx, tx, input.FromAttributeID, input.ToAttributeID, input.RelationType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	principal, _ := ctxutil.GetPrincipal(ctx)
	rel := &types.AttributeRelation{
		ID:              rs.idGen.NewID("attribute_relation", "global"),
		FromAttributeID: input.FromAttributeID,
		ToAttributeID:   input.ToAttributeID,
		RelationType:    input.RelationType,
		Confidence:      input.Confidence,
		Source:          input.Source,
		CreatedBy:       principal.ID,
		UpdatedBy:       principal.ID,
	}
	if err := rs.attrRelRepo.Insert(ctx, tx, rel); err != nil {
		raced, findErr := rs.attrRelRepo.FindOneByKey(ctx, tx, input.FromAttributeID, input.ToAttributeID, input.RelationType)
		if findErr == nil && raced != nil {
			return raced, nil
		}
		return nil, fmt.Errorf("insert attribute relation: %w", err)
	}
	return rel, nil
}

func (rs *relationService) ListAttributeRelations(ctx context.Context, tx *gorm.DB, attributeTypeID string) ([]*types.AttributeRelation, error) {
	if attributeTypeID == "" {
		return nil, apperrors.Validationf("attribute type id is required")
	}
	return rs.attrRelRepo.ListTouchingAttribute(ctx, tx, attributeTypeID)
}

func (rs *relationService) DeleteAttributeRelation(ctx context.Context, tx *gorm.DB, relationID string) error {
	rel, err := rs.attrRelRepo.GetByID(ctx, tx, relationID)
	if err != nil {
		return err
	}
	if rel == nil {
		return apperrors.NotFoundf("attribute relation %s", relationID)
	}
	return rs.attrRelRepo.DeleteByIDs(ctx, tx, []string{relationID})
}
