package repos

import (
  "context"
  "strings"

  "gorm.io/gorm"

  "github.com/vocabhub/vocab-backend/internal/pkg/logger"
  "github.com/vocabhub/vocab-backend/internal/types"
)

type WorkspaceAttributeValueRepo interface {
  Insert(ctx context.Context, tx *gorm.DB, av *types.WorkspaceAttributeValue) error
  Save(ctx context.Context, tx *gorm.DB, av *types.WorkspaceAttributeValue) error
  UpdateFields(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error
  GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.WorkspaceAttributeValue, error)
  FindOneByAttributeAndValueOrSynonym(ctx context.Context, tx *gorm.DB, workspaceID, attributeTypeID, value string) (*types.WorkspaceAttributeValue, error)
  List(ctx context.Context, tx *gorm.DB, workspaceID string, filter AttributeValueFilter, page types.PageArgs) ([]*types.WorkspaceAttributeValue, int64, error)
}

type workspaceAttributeValueRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWorkspaceAttributeValueRepo(db *gorm.DB, baseLog *logger.Logger) WorkspaceAttributeValueRepo {
  repoLog := baseLog.With("repo", "WorkspaceAttributeValueRepo")
  return &workspaceAttributeValueRepo{db: db, log: repoLog}
}

func (wr *workspaceAttributeValueRepo) Insert(ctx context.Context, tx *gorm.DB, av *types.WorkspaceAttributeValue) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  return transaction.WithContext(ctx).Create(av).Error
}

func (wr *workspaceAttributeValueRepo) Save(ctx context.Context, tx *gorm.DB, av *types.WorkspaceAttributeValue) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  return transaction.WithContext(ctx).Save(av).Error
}

func (wr *workspaceAttributeValueRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  return transaction.WithContext(ctx).Model(&types.WorkspaceAttributeValue{}).Where("id = ?", id).Updates(fields).Error
}

func (wr *workspaceAttributeValueRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.WorkspaceAttributeValue, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  var av types.WorkspaceAttributeValue
  err := transaction.WithContext(ctx).Where("id = ?", id).First(&av).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &av, nil
}

func (wr *workspaceAttributeValueRepo) FindOneByAttributeAndValueOrSynonym(ctx context.Context, tx *gorm.DB, workspaceID, attributeTypeID, value string) (*types.WorkspaceAttributeValue, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  needle := strings.ToLower(strings.TrimSpace(value))
  if needle == "" {
    return nil, nil
  }
  var direct types.WorkspaceAttributeValue
  err := transaction.WithContext(ctx).
    Where("workspace_id = ? AND attribute_type_id = ? AND value_key = ?", workspaceID, attributeTypeID, needle).
    First(&direct).Error
  if err == nil {
    return &direct, nil
  }
  if err != gorm.ErrRecordNotFound {
    return nil, err
  }
  var candidates []*types.WorkspaceAttributeValue
  if err := transaction.WithContext(ctx).
    Where("workspace_id = ? AND attribute_type_id = ? AND LOWER(CAST(synonyms AS TEXT)) LIKE ?", workspaceID, attributeTypeID, synonymNeedle(needle)).
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

func (wr *workspaceAttributeValueRepo) List(ctx context.Context, tx *gorm.DB, workspaceID string, filter AttributeValueFilter, page types.PageArgs) ([]*types.WorkspaceAttributeValue, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  q := transaction.WithContext(ctx).Model(&types.WorkspaceAttributeValue{}).Where("workspace_id = ?", workspaceID)
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
  var results []*types.WorkspaceAttributeValue
  if err := q.Order("value_key ASC").Offset(page.Offset()).Limit(page.Limit()).Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, total, nil
}
