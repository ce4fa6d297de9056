package repos

import (
  "context"
  "strings"

  "gorm.io/gorm"

  "github.com/vocabhub/vocab-backend/internal/pkg/logger"
  "github.com/vocabhub/vocab-backend/internal/types"
)

type TagFilter struct {
  Status      types.Status
  AuditStatus types.AuditStatus
  SearchTerm  string
}

type TagRepo interface {
  Insert(ctx context.Context, tx *gorm.DB, tag *types.Tag) error
  Save(ctx context.Context, tx *gorm.DB, tag *types.Tag) error
  UpdateFields(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error
  GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Tag, error)
  // FindOneByLabelOrSynonym returns the single tag whose normalized label
  // or synonym list matches label exactly. No merge-chain resolution here;
  // that is the registry's job.
  FindOneByLabelOrSynonym(ctx context.Context, tx *gorm.DB, label string) (*types.Tag, error)
  List(ctx context.Context, tx *gorm.DB, filter TagFilter, page types.PageArgs) ([]*types.Tag, int64, error)
}

type tagRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
  repoLog := baseLog.With("repo", "TagRepo")
  return &tagRepo{db: db, log: repoLog}
}

func (tr *tagRepo) Insert(ctx context.Context, tx *gorm.DB, tag *types.Tag) error {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  return transaction.WithContext(ctx).Create(tag).Error
}

func (tr *tagRepo) Save(ctx context.Context, tx *gorm.DB, tag *types.Tag) error {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  return transaction.WithContext(ctx).Save(tag).Error
}

func (tr *tagRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  return transaction.WithContext(ctx).Model(&types.Tag{}).Where("id = ?", id).Updates(fields).Error
}

func (tr *tagRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Tag, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  var tag types.Tag
  err := transaction.WithContext(ctx).Where("id = ?", id).First(&tag).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &tag, nil
}

func (tr *tagRepo) FindOneByLabelOrSynonym(ctx context.Context, tx *gorm.DB, label string) (*types.Tag, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  needle := strings.ToLower(strings.TrimSpace(label))
  if needle == "" {
    return nil, nil
  }
  var direct types.Tag
  err := transaction.WithContext(ctx).Where("label = ?", needle).First(&direct).Error
  if err == nil {
    return &direct, nil
  }
  if err != gorm.ErrRecordNotFound {
    return nil, err
  }
  var candidates []*types.Tag
  if err := transaction.WithContext(ctx).
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

func (tr *tagRepo) List(ctx context.Context, tx *gorm.DB, filter TagFilter, page types.PageArgs) ([]*types.Tag, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  q := transaction.WithContext(ctx).Model(&types.Tag{})
  if filter.Status != "" {
    q = q.Where("status = ?", filter.Status)
  }
  if filter.AuditStatus != "" {
    q = q.Where("audit_status = ?", filter.AuditStatus)
  }
  if filter.SearchTerm != "" {
    needle := "%" + strings.ToLower(strings.TrimSpace(filter.SearchTerm)) + "%"
    q = q.Where("label LIKE ? OR LOWER(display_name) LIKE ? OR LOWER(CAST(synonyms AS TEXT)) LIKE ?", needle, needle, needle)
  }
  var total int64
  if err := q.Count(&total).Error; err != nil {
    return nil, 0, err
  }
  var results []*types.Tag
  if err := q.Order("label ASC").Offset(page.Offset()).Limit(page.Limit()).Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, total, nil
}
