package repos

import (
  "context"
  "strings"

  "gorm.io/gorm"

  "github.com/vocabhub/vocab-backend/internal/pkg/logger"
  "github.com/vocabhub/vocab-backend/internal/types"
)

type UnitFilter struct {
  Dimension  string
  Status     types.Status
  SearchTerm string
}

type UnitRepo interface {
  Insert(ctx context.Context, tx *gorm.DB, unit *types.UnitDefinition) error
  Save(ctx context.Context, tx *gorm.DB, unit *types.UnitDefinition) error
  GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.UnitDefinition, error)
  GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.UnitDefinition, error)
  List(ctx context.Context, tx *gorm.DB, filter UnitFilter, page types.PageArgs) ([]*types.UnitDefinition, int64, error)
}

type unitRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUnitRepo(db *gorm.DB, baseLog *logger.Logger) UnitRepo {
  repoLog := baseLog.With("repo", "UnitRepo")
  return &unitRepo{db: db, log: repoLog}
}

func (ur *unitRepo) Insert(ctx context.Context, tx *gorm.DB, unit *types.UnitDefinition) error {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  return transaction.WithContext(ctx).Create(unit).Error
}

func (ur *unitRepo) Save(ctx context.Context, tx *gorm.DB, unit *types.UnitDefinition) error {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  return transaction.WithContext(ctx).Save(unit).Error
}

func (ur *unitRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.UnitDefinition, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  var unit types.UnitDefinition
  err := transaction.WithContext(ctx).Where("id = ?", id).First(&unit).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &unit, nil
}

func (ur *unitRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.UnitDefinition, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  var unit types.UnitDefinition
  err := transaction.WithContext(ctx).
    Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
    First(&unit).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &unit, nil
}

func (ur *unitRepo) List(ctx context.Context, tx *gorm.DB, filter UnitFilter, page types.PageArgs) ([]*types.UnitDefinition, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  q := transaction.WithContext(ctx).Model(&types.UnitDefinition{})
  if filter.Dimension != "" {
    q = q.Where("dimension = ?", filter.Dimension)
  }
  if filter.Status != "" {
    q = q.Where("status = ?", filter.Status)
  }
  if filter.SearchTerm != "" {
    needle := "%" + strings.ToLower(strings.TrimSpace(filter.SearchTerm)) + "%"
    q = q.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", needle, needle)
  }
  var total int64
  if err := q.Count(&total).Error; err != nil {
    return nil, 0, err
  }
  var results []*types.UnitDefinition
  if err := q.Order("code ASC").Offset(page.Offset()).Limit(page.Limit()).Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, total, nil
}
