package repos

import (
  "context"
  "strings"

  "gorm.io/gorm"

  "github.com/vocabhub/vocab-backend/internal/pkg/logger"
  "github.com/vocabhub/vocab-backend/internal/types"
)

type WorkspaceAttributeTypeRepo interface {
  Insert(ctx context.Context, tx *gorm.DB, at *types.WorkspaceAttributeType) error
  Save(ctx context.Context, tx *gorm.DB, at *types.WorkspaceAttributeType) error
  UpdateFields(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error
  GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.WorkspaceAttributeType, error)
  FindOneByNameOrSynonym(ctx context.Context, tx *gorm.DB, workspaceID, name string) (*types.WorkspaceAttributeType, error)
  FindOneByGlobalID(ctx context.Context, tx *gorm.DB, workspaceID, globalID string) (*types.WorkspaceAttributeType, error)
  List(ctx context.Context, tx *gorm.DB, workspaceID string, filter AttributeTypeFilter, page types.PageArgs) ([]*types.WorkspaceAttributeType, int64, error)
}

type workspaceAttributeTypeRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWorkspaceAttributeTypeRepo(db *gorm.DB, baseLog *logger.Logger) WorkspaceAttributeTypeRepo {
  repoLog := baseLog.With("repo", "WorkspaceAttributeTypeRepo")
  return &workspaceAttributeTypeRepo{db: db, log: repoLog}
}

func (wr *workspaceAttributeTypeRepo) Insert(ctx context.Context, tx *gorm.DB, at *types.WorkspaceAttributeType) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  return transaction.WithContext(ctx).Create(at).Error
}

func (wr *workspaceAttributeTypeRepo) Save(ctx context.Context, tx *gorm.DB, at *types.WorkspaceAttributeType) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  return transaction.WithContext(ctx).Save(at).Error
}

func (wr *workspaceAttributeTypeRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  return transaction.WithContext(ctx).Model(&types.WorkspaceAttributeType{}).Where("id = ?", id).Updates(fields).Error
}

func (wr *workspaceAttributeTypeRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.WorkspaceAttributeType, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  var at types.WorkspaceAttributeType
  err := transaction.WithContext(ctx).Where("id = ?", id).First(&at).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &at, nil
}

func (wr *workspaceAttributeTypeRepo) FindOneByNameOrSynonym(ctx context.Context, tx *gorm.DB, workspaceID, name string) (*types.WorkspaceAttributeType, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  needle := strings.ToLower(strings.TrimSpace(name))
  if needle == "" {
    return nil, nil
  }
  var direct types.WorkspaceAttributeType
  err := transaction.WithContext(ctx).
    Where("workspace_id = ? AND name_key = ?", workspaceID, needle).
    First(&direct).Error
  if err == nil {
    return &direct, nil
  }
  if err != gorm.ErrRecordNotFound {
    return nil, err
  }
  var candidates []*types.WorkspaceAttributeType
  if err := transaction.WithContext(ctx).
    Where("workspace_id = ? AND LOWER(CAST(synonyms AS TEXT)) LIKE ?", workspaceID, synonymNeedle(needle)).
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

func (wr *workspaceAttributeTypeRepo) FindOneByGlobalID(ctx context.Context, tx *gorm.DB, workspaceID, globalID string) (*types.WorkspaceAttributeType, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  if globalID == "" {
    return nil, nil
  }
  var at types.WorkspaceAttributeType
  err := transaction.WithContext(ctx).
    Where("workspace_id = ? AND global_attribute_type_id = ?", workspaceID, globalID).
    First(&at).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &at, nil
}

func (wr *workspaceAttributeTypeRepo) List(ctx context.Context, tx *gorm.DB, workspaceID string, filter AttributeTypeFilter, page types.PageArgs) ([]*types.WorkspaceAttributeType, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  q := transaction.WithContext(ctx).Model(&types.WorkspaceAttributeType{}).Where("workspace_id = ?", workspaceID)
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
  var results []*types.WorkspaceAttributeType
  if err := q.Order("name_key ASC").Offset(page.Offset()).Limit(page.Limit()).Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, total, nil
}
