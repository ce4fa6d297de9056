package repos

import (
  "context"

  "gorm.io/gorm"

  "github.com/vocabhub/vocab-backend/internal/pkg/logger"
  "github.com/vocabhub/vocab-backend/internal/types"
)

// RelationKey is the composite identity of a tag relation, used by the
// merge engine's duplicate sweep.
type RelationKey struct {
  FromTagID    string
  ToTagID      string
  RelationType types.TagRelationType
}

type TagRelationRepo interface {
  Insert(ctx context.Context, tx *gorm.DB, rel *types.TagRelation) error
  Save(ctx context.Context, tx *gorm.DB, rel *types.TagRelation) error
  GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.TagRelation, error)
  FindOneByKey(ctx context.Context, tx *gorm.DB, key RelationKey) (*types.TagRelation, error)
  // ListTouchingTag returns every relation whose from or to side is tagID.
  ListTouchingTag(ctx context.Context, tx *gorm.DB, tagID string) ([]*types.TagRelation, error)
  ListByKey(ctx context.Context, tx *gorm.DB, key RelationKey) ([]*types.TagRelation, error)
  // FindDuplicateKeys groups by (from, to, type) and returns keys held by
  // more than one row.
  FindDuplicateKeys(ctx context.Context, tx *gorm.DB) ([]RelationKey, error)
  DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error
  ListByTagIDs(ctx context.Context, tx *gorm.DB, tagIDs []string) ([]*types.TagRelation, error)
}

type tagRelationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTagRelationRepo(db *gorm.DB, baseLog *logger.Logger) TagRelationRepo {
  repoLog := baseLog.With("repo", "TagRelationRepo")
  return &tagRelationRepo{db: db, log: repoLog}
}

func (rr *tagRelationRepo) Insert(ctx context.Context, tx *gorm.DB, rel *types.TagRelation) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  return transaction.WithContext(ctx).Create(rel).Error
}

func (rr *tagRelationRepo) Save(ctx context.Context, tx *gorm.DB, rel *types.TagRelation) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  return transaction.WithContext(ctx).Save(rel).Error
}

func (rr *tagRelationRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.TagRelation, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var rel types.TagRelation
  err := transaction.WithContext(ctx).Where("id = ?", id).First(&rel).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &rel, nil
}

func (rr *tagRelationRepo) FindOneByKey(ctx context.Context, tx *gorm.DB, key RelationKey) (*types.TagRelation, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var rel types.TagRelation
  err := transaction.WithContext(ctx).
    Where("from_tag_id = ? AND to_tag_id = ? AND relation_type = ?", key.FromTagID, key.ToTagID, key.RelationType).
    First(&rel).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &rel, nil
}

func (rr *tagRelationRepo) ListTouchingTag(ctx context.Context, tx *gorm.DB, tagID string) ([]*types.TagRelation, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var results []*types.TagRelation
  if err := transaction.WithContext(ctx).
    Where("from_tag_id = ? OR to_tag_id = ?", tagID, tagID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (rr *tagRelationRepo) ListByKey(ctx context.Context, tx *gorm.DB, key RelationKey) ([]*types.TagRelation, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var results []*types.TagRelation
  if err := transaction.WithContext(ctx).
    Where("from_tag_id = ? AND to_tag_id = ? AND relation_type = ?", key.FromTagID, key.ToTagID, key.RelationType).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (rr *tagRelationRepo) FindDuplicateKeys(ctx context.Context, tx *gorm.DB) ([]RelationKey, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var keys []RelationKey
  err := transaction.WithContext(ctx).
    Model(&types.TagRelation{}).
    Select("from_tag_id, to_tag_id, relation_type").
    Group("from_tag_id, to_tag_id, relation_type").
    Having("COUNT(*) > 1").
    Scan(&keys).Error
  if err != nil {
    return nil, err
  }
  return keys, nil
}

func (rr *tagRelationRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  if len(ids) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).Where("id IN ?", ids).Delete(&types.TagRelation{}).Error
}

func (rr *tagRelationRepo) ListByTagIDs(ctx context.Context, tx *gorm.DB, tagIDs []string) ([]*types.TagRelation, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var results []*types.TagRelation
  if len(tagIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("from_tag_id IN ? OR to_tag_id IN ?", tagIDs, tagIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
