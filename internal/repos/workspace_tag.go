package repos

import (
  "context"
  "strings"

  "gorm.io/gorm"

  "github.com/vocabhub/vocab-backend/internal/pkg/logger"
  "github.com/vocabhub/vocab-backend/internal/types"
)

type WorkspaceTagFilter struct {
  Status           types.Status
  AuditStatus      types.AuditStatus
  SearchTerm       string
  // PromotedToGlobal filters on whether GlobalTagID is set.
  PromotedToGlobal *bool
}

type WorkspaceTagRepo interface {
  Insert(ctx context.Context, tx *gorm.DB, tag *types.WorkspaceTag) error
  Save(ctx context.Context, tx *gorm.DB, tag *types.WorkspaceTag) error
  UpdateFields(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error
  GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.WorkspaceTag, error)
  FindOneByLabelOrSynonym(ctx context.Context, tx *gorm.DB, workspaceID, label string) (*types.WorkspaceTag, error)
  List(ctx context.Context, tx *gorm.DB, workspaceID string, filter WorkspaceTagFilter, page types.PageArgs) ([]*types.WorkspaceTag, int64, error)
}

type workspaceTagRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWorkspaceTagRepo(db *gorm.DB, baseLog *logger.Logger) WorkspaceTagRepo {
  repoLog := baseLog.With("repo", "WorkspaceTagRepo")
  return &workspaceTagRepo{db: db, log: repoLog}
}

func (wr *workspaceTagRepo) Insert(ctx context.Context, tx *gorm.DB, tag *types.WorkspaceTag) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  return transaction.WithContext(ctx).Create(tag).Error
}

func (wr *workspaceTagRepo) Save(ctx context.Context, tx *gorm.DB, tag *types.WorkspaceTag) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  return transaction.WithContext(ctx).Save(tag).Error
}

func (wr *workspaceTagRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  return transaction.WithContext(ctx).Model(&types.WorkspaceTag{}).Where("id = ?", id).Updates(fields).Error
}

func (wr *workspaceTagRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.WorkspaceTag, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  var tag types.WorkspaceTag
  err := transaction.WithContext(ctx).Where("id = ?", id).First(&tag).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &tag, nil
}

func (wr *workspaceTagRepo) FindOneByLabelOrSynonym(ctx context.Context, tx *gorm.DB, workspaceID, label string) (*types.WorkspaceTag, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  needle := strings.ToLower(strings.TrimSpace(label))
  if needle == "" {
    return nil, nil
  }
  var direct types.WorkspaceTag
  err := transaction.WithContext(ctx).
    Where("workspace_id = ? AND label = ?", workspaceID, needle).
    First(&direct).Error
  if err == nil {
    return &direct, nil
  }
  if err != gorm.ErrRecordNotFound {
    return nil, err
  }
  var candidates []*types.WorkspaceTag
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

func (wr *workspaceTagRepo) List(ctx context.Context, tx *gorm.DB, workspaceID string, filter WorkspaceTagFilter, page types.PageArgs) ([]*types.WorkspaceTag, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  q := transaction.WithContext(ctx).Model(&types.WorkspaceTag{}).Where("workspace_id = ?", workspaceID)
  if filter.Status != "" {
    q = q.Where("status = ?", filter.Status)
  }
  if filter.AuditStatus != "" {
    q = q.Where("audit_status = ?", filter.AuditStatus)
  }
  if filter.PromotedToGlobal != nil {
    if *filter.PromotedToGlobal {
      q = q.Where("global_tag_id IS NOT NULL AND global_tag_id <> ''")
    } else {
      q = q.Where("global_tag_id IS NULL OR global_tag_id = ''")
    }
  }
  if filter.SearchTerm != "" {
    needle := "%" + strings.ToLower(strings.TrimSpace(filter.SearchTerm)) + "%"
    q = q.Where("label LIKE ? OR LOWER(display_name) LIKE ? OR LOWER(CAST(synonyms AS TEXT)) LIKE ?", needle, needle, needle)
  }
  var total int64
  if err := q.Count(&total).Error; err != nil {
    return nil, 0, err
  }
  var results []*types.WorkspaceTag
  if err := q.Order("label ASC").Offset(page.Offset()).Limit(page.Limit()).Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, total, nil
}
