package repos

import (
  "context"
  "strings"

  "gorm.io/gorm"

  "github.com/vocabhub/vocab-backend/internal/pkg/logger"
  "github.com/vocabhub/vocab-backend/internal/types"
)

type AttributeValueFilter struct {
  AttributeTypeID string
  Status          types.Status
  AuditStatus     types.AuditStatus
  SearchTerm      string
}

type AttributeValueRepo interface {
  Insert(ctx context.Context, tx *gorm.DB, av *types.AttributeValue) error
  Save(ctx context.Context, tx *gorm.DB, av *types.AttributeValue) error
  UpdateFields(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error
  GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.AttributeValue, error)
  FindOneByAttributeAndValueOrSynonym(ctx context.Context, tx *gorm.DB, attributeTypeID, value string) (*types.AttributeValue, error)
  List(ctx context.Context, tx *gorm.DB, filter AttributeValueFilter, page types.PageArgs) ([]*types.AttributeValue, int64, error)
}

type attributeValueRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAttributeValueRepo(db *gorm.DB, baseLog *logger.Logger) AttributeValueRepo {
  repoLog := baseLog.With("repo", "AttributeValueRepo")
  return &attributeValueRepo{db: db, log: repoLog}
}

func (vr *attributeValueRepo) Insert(ctx context.Context, tx *gorm.DB, av *types.AttributeValue) error {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  return transaction.WithContext(ctx).Create(av).Error
}

func (vr *attributeValueRepo) Save(ctx context.Context, tx *gorm.DB, av *types.AttributeValue) error {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  return transaction.WithContext(ctx).Save(av).Error
}

func (vr *attributeValueRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  return transaction.WithContext(ctx).Model(&types.AttributeValue{}).Where("id = ?", id).Updates(fields).Error
}

func (vr *attributeValueRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.AttributeValue, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  var av types.AttributeValue
  err := transaction.WithContext(ctx).Where("id = ?", id).First(&av).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &av, nil
}

func (vr *attributeValueRepo) FindOneByAttributeAndValueOrSynonym(ctx context.Context, tx *gorm.DB, attributeTypeID, value string) (*types.AttributeValue, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  needle := strings.ToLower(strings.TrimSpace(value))
  if needle == "" {
    return nil, nil
  }
  var direct types.AttributeValue
  err := transaction.WithContext(ctx).
    Where("attribute_type_id = ? AND value_key = ?", attributeTypeID, needle).
    First(&direct).Error
  if err == nil {
    return &direct, nil
  }
  if err != gorm.ErrRecordNotFound {
    return nil, err
  }
  var candidates []*types.AttributeValue
  if err := transaction.WithContext(ctx).
    Where("attribute_type_id = ? AND LOWER(CAST(synonyms AS TEXT)) LIKE ?", attributeTypeID, synonymNeedle(needle)).
    Find(&candidates).Error; err != nil {
    return nil, err
  }
  for _, c := range candidates {
    if containsFold(c.Synonyms, needle) {
      return c, nil
    }
  }
  return nil, nil
}

func (vr *attributeValueRepo) List(ctx context.Context, tx *gorm.DB, filter AttributeValueFilter, page types.PageArgs) ([]*types.AttributeValue, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  q := transaction.WithContext(ctx).Model(&types.AttributeValue{})
  if filter.AttributeTypeID != "" {
    q = q.Where("attribute_type_id = ?", filter.AttributeTypeID)
  }
  if filter.Status != "" {
    q = q.Where("status = ?", filter.Status)
  }
  if filter.AuditStatus != "" {
    q = q.Where("audit_status = ?", filter.AuditStatus)
  }
  if filter.SearchTerm != "" {
    needle := "%" + strings.ToLower(strings.TrimSpace(filter.SearchTerm)) + "%"
    q = q.Where("value_key LIKE ? OR LOWER(CAST(synonyms AS TEXT)) LIKE ?", needle, needle)
  }
  var total int64
  if err := q.Count(&total).Error; err != nil {
    return nil, 0, err
  }
  var results []*types.AttributeValue
  if err := q.Order("value_key ASC").Offset(page.Offset()).Limit(page.Limit()).Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, total, nil
}
