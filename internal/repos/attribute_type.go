package repos

import (
  "context"
  "strings"

  "gorm.io/gorm"

  "github.com/vocabhub/vocab-backend/internal/pkg/logger"
  "github.com/vocabhub/vocab-backend/internal/types"
)

type AttributeTypeFilter struct {
  Kind       types.AttributeKind
  ValueType  types.ValueType
  Dimension  string
  Status     types.Status
  AppliesTo  types.AppliesTo
  UsageHint  string
  SearchTerm string
}

type AttributeTypeRepo interface {
  Insert(ctx context.Context, tx *gorm.DB, at *types.AttributeType) error
  Save(ctx context.Context, tx *gorm.DB, at *types.AttributeType) error
  UpdateFields(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error
  GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.AttributeType, error)
  // FindOneByNameOrSynonym matches name case-insensitively against the
  // name and every synonym entry.
  FindOneByNameOrSynonym(ctx context.Context, tx *gorm.DB, name string) (*types.AttributeType, error)
  // FindNonDeprecatedByNameOrSynonym is the lint engine's probe: it skips
  // DEPRECATED definitions so retired concepts stop blocking new tags.
  FindNonDeprecatedByNameOrSynonym(ctx context.Context, tx *gorm.DB, name string) (*types.AttributeType, error)
  List(ctx context.Context, tx *gorm.DB, filter AttributeTypeFilter, page types.PageArgs) ([]*types.AttributeType, int64, error)
}

type attributeTypeRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAttributeTypeRepo(db *gorm.DB, baseLog *logger.Logger) AttributeTypeRepo {
  repoLog := baseLog.With("repo", "AttributeTypeRepo")
  return &attributeTypeRepo{db: db, log: repoLog}
}

func (ar *attributeTypeRepo) Insert(ctx context.Context, tx *gorm.DB, at *types.AttributeType) error {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  return transaction.WithContext(ctx).Create(at).Error
}

func (ar *attributeTypeRepo) Save(ctx context.Context, tx *gorm.DB, at *types.AttributeType) error {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  return transaction.WithContext(ctx).Save(at).Error
}

func (ar *attributeTypeRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  return transaction.WithContext(ctx).Model(&types.AttributeType{}).Where("id = ?", id).Updates(fields).Error
}

func (ar *attributeTypeRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.AttributeType, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var at types.AttributeType
  err := transaction.WithContext(ctx).Where("id = ?", id).First(&at).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &at, nil
}

func (ar *attributeTypeRepo) FindOneByNameOrSynonym(ctx context.Context, tx *gorm.DB, name string) (*types.AttributeType, error) {
  return ar.findByNameOrSynonym(ctx, tx, name, false)
}

func (ar *attributeTypeRepo) FindNonDeprecatedByNameOrSynonym(ctx context.Context, tx *gorm.DB, name string) (*types.AttributeType, error) {
  return ar.findByNameOrSynonym(ctx, tx, name, true)
}

func (ar *attributeTypeRepo) findByNameOrSynonym(ctx context.Context, tx *gorm.DB, name string, skipDeprecated bool) (*types.AttributeType, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  needle := strings.ToLower(strings.TrimSpace(name))
  if needle == "" {
    return nil, nil
  }
  base := transaction.WithContext(ctx).Model(&types.AttributeType{})
  if skipDeprecated {
    base = base.Where("status <> ?", types.StatusDeprecated)
  }
  var direct types.AttributeType
  err := base.Session(&gorm.Session{}).Where("name_key = ?", needle).First(&direct).Error
  if err == nil {
    return &direct, nil
  }
  if err != gorm.ErrRecordNotFound {
    return nil, err
  }
  var candidates []*types.AttributeType
  if err := base.Session(&gorm.Session{}).
    Where("LOWER(CAST(synonyms AS TEXT)) LIKE ?", synonymNeedle(needle)).
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

func (ar *attributeTypeRepo) List(ctx context.Context, tx *gorm.DB, filter AttributeTypeFilter, page types.PageArgs) ([]*types.AttributeType, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  q := transaction.WithContext(ctx).Model(&types.AttributeType{})
  if filter.Kind != "" {
    q = q.Where("kind = ?", filter.Kind)
  }
  if filter.ValueType != "" {
    q = q.Where("value_type = ?", filter.ValueType)
  }
  if filter.Dimension != "" {
    q = q.Where("dimension = ?", filter.Dimension)
  }
  if filter.Status != "" {
    q = q.Where("status = ?", filter.Status)
  }
  if filter.AppliesTo != "" {
    q = q.Where("applies_to = ?", filter.AppliesTo)
  }
  if filter.UsageHint != "" {
    q = q.Where("LOWER(CAST(usage_hints AS TEXT)) LIKE ?", synonymNeedle(filter.UsageHint))
  }
  if filter.SearchTerm != "" {
    needle := "%" + strings.ToLower(strings.TrimSpace(filter.SearchTerm)) + "%"
    q = q.Where("name_key LIKE ? OR LOWER(CAST(synonyms AS TEXT)) LIKE ?", needle, needle)
  }
  var total int64
  if err := q.Count(&total).Error; err != nil {
    return nil, 0, err
  }
  var results []*types.AttributeType
  if err := q.Order("name_key ASC").Offset(page.Offset()).Limit(page.Limit()).Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, total, nil
}
