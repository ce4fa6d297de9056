package repos

import (
  "context"
  "strings"

  "gorm.io/gorm"

  "github.com/vocabhub/vocab-backend/internal/pkg/logger"
  "github.com/vocabhub/vocab-backend/internal/types"
)

type ParseRuleRepo interface {
  Insert(ctx context.Context, tx *gorm.DB, rule *types.ParseRule) error
  Save(ctx context.Context, tx *gorm.DB, rule *types.ParseRule) error
  GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.ParseRule, error)
  FindOneByRawKey(ctx context.Context, tx *gorm.DB, rawKey string) (*types.ParseRule, error)
  // ListReferencingContextTag returns rules whose ContextTagIDs mention
  // tagID. The merge engine rewrites these when a tag is absorbed.
  ListReferencingContextTag(ctx context.Context, tx *gorm.DB, tagID string) ([]*types.ParseRule, error)
  List(ctx context.Context, tx *gorm.DB, attributeTypeID string, page types.PageArgs) ([]*types.ParseRule, int64, error)
}

type parseRuleRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewParseRuleRepo(db *gorm.DB, baseLog *logger.Logger) ParseRuleRepo {
  repoLog := baseLog.With("repo", "ParseRuleRepo")
  return &parseRuleRepo{db: db, log: repoLog}
}

func (pr *parseRuleRepo) Insert(ctx context.Context, tx *gorm.DB, rule *types.ParseRule) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  return transaction.WithContext(ctx).Create(rule).Error
}

func (pr *parseRuleRepo) Save(ctx context.Context, tx *gorm.DB, rule *types.ParseRule) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  return transaction.WithContext(ctx).Save(rule).Error
}

func (pr *parseRuleRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.ParseRule, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var rule types.ParseRule
  err := transaction.WithContext(ctx).Where("id = ?", id).First(&rule).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &rule, nil
}

func (pr *parseRuleRepo) FindOneByRawKey(ctx context.Context, tx *gorm.DB, rawKey string) (*types.ParseRule, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  key := strings.TrimSpace(rawKey)
  if key == "" {
    return nil, nil
  }
  var rule types.ParseRule
  err := transaction.WithContext(ctx).Where("raw_key = ?", key).First(&rule).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &rule, nil
}

func (pr *parseRuleRepo) ListReferencingContextTag(ctx context.Context, tx *gorm.DB, tagID string) ([]*types.ParseRule, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var candidates []*types.ParseRule
  if err := transaction.WithContext(ctx).
    Where("CAST(context_tag_ids AS TEXT) LIKE ?", "%\""+tagID+"\"%").
    Find(&candidates).Error; err != nil {
    return nil, err
  }
  results := candidates[:0]
  for _, c := range candidates {
    for _, id := range c.ContextTagIDs {
      if id == tagID {
        results = append(results, c)
        break
      }
    }
  }
  return results, nil
}

func (pr *parseRuleRepo) List(ctx context.Context, tx *gorm.DB, attributeTypeID string, page types.PageArgs) ([]*types.ParseRule, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  q := transaction.WithContext(ctx).Model(&types.ParseRule{})
  if attributeTypeID != "" {
    q = q.Where("attribute_type_id = ?", attributeTypeID)
  }
  var total int64
  if err := q.Count(&total).Error; err != nil {
    return nil, 0, err
  }
  var results []*types.ParseRule
  if err := q.Order("raw_key ASC").Offset(page.Offset()).Limit(page.Limit()).Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, total, nil
}
