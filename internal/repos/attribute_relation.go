package repos

import (
  "context"

  "gorm.io/gorm"

  "github.com/vocabhub/vocab-backend/internal/pkg/logger"
  "github.com/vocabhub/vocab-backend/internal/types"
)

type AttributeRelationRepo interface {
  Insert(ctx context.Context, tx *gorm.DB, rel *types.AttributeRelation) error
  GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.AttributeRelation, error)
  FindOneByKey(ctx context.Context, tx *gorm.DB, fromID, toID string, relType types.AttributeRelationType) (*types.AttributeRelation, error)
  ListTouchingAttribute(ctx context.Context, tx *gorm.DB, attributeTypeID string) ([]*types.AttributeRelation, error)
  DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error
}

type attributeRelationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAttributeRelationRepo(db *gorm.DB, baseLog *logger.Logger) AttributeRelationRepo {
  repoLog := baseLog.With("repo", "AttributeRelationRepo")
  return &attributeRelationRepo{db: db, log: repoLog}
}

func (rr *attributeRelationRepo) Insert(ctx context.Context, tx *gorm.DB, rel *types.AttributeRelation) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  return transaction.WithContext(ctx).Create(rel).Error
}

func (rr *attributeRelationRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.AttributeRelation, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var rel types.AttributeRelation
  err := transaction.WithContext(ctx).Where("id = ?", id).First(&rel).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &rel, nil
}

func (rr *attributeRelationRepo) FindOneByKey(ctx context.Context, tx *gorm.DB, fromID, toID string, relType types.AttributeRelationType) (*types.AttributeRelation, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var rel types.AttributeRelation
  err := transaction.WithContext(ctx).
    Where("from_attribute_id = ? AND to_attribute_id = ? AND relation_type = ?", fromID, toID, relType).
    First(&rel).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &rel, nil
}

func (rr *attributeRelationRepo) ListTouchingAttribute(ctx context.Context, tx *gorm.DB, attributeTypeID string) ([]*types.AttributeRelation, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var results []*types.AttributeRelation
  if err := transaction.WithContext(ctx).
    Where("from_attribute_id = ? OR to_attribute_id = ?", attributeTypeID, attributeTypeID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (rr *attributeRelationRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  if len(ids) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).Where("id IN ?", ids).Delete(&types.AttributeRelation{}).Error
}
