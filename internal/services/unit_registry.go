package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/vocabhub/vocab-backend/internal/ids"
	"github.com/vocabhub/vocab-backend/internal/pkg/ctxutil"
	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/pkg/logger"
	"github.com/vocabhub/vocab-backend/internal/repos"
	"github.com/vocabhub/vocab-backend/internal/types"
)

// UnitDefinitionInput is the write model for UpsertByCode.
type UnitDefinitionInput struct {
	Code              string
	Name              string
	Dimension         string
	CanonicalUnitCode string
	ToCanonicalFactor float64
	Offset            float64
	Status            types.Status
	Source            string
}

// UnitRegistryService owns the globally curated unit vocabulary. There is
// no workspace tier for units: every unit is seeded centrally.
type UnitRegistryService interface {
	UpsertByCode(ctx context.Context, tx *gorm.DB, input UnitDefinitionInput) (*types.UnitDefinition, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.UnitDefinition, error)
	List(ctx context.Context, tx *gorm.DB, filter repos.UnitFilter, page types.PageArgs) ([]*types.UnitDefinition, int64, error)
	// Convert converts value from one unit code to another of the same
	// dimension, passing through the dimension's canonical unit.
	Convert(ctx context.Context, tx *gorm.DB, value float64, fromCode, toCode string) (float64, error)
}

type unitRegistryService struct {
	db       *gorm.DB
	log      *logger.Logger
	idGen    ids.Generator
	unitRepo repos.UnitRepo
}

func NewUnitRegistryService(
	db *gorm.DB,
	baseLog *logger.Logger,
	idGen ids.Generator,
	unitRepo repos.UnitRepo,
) UnitRegistryService {
	serviceLog := baseLog.With("service", "UnitRegistryService")
	return &unitRegistryService{db: db, log: serviceLog, idGen: idGen, unitRepo: unitRepo}
}

func (us *unitRegistryService) UpsertByCode(ctx context.Context, tx *gorm.DB, input UnitDefinitionInput) (*types.UnitDefinition, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, apperrors.Validationf("unit code is required")
	}
	status := input.Status
	if status == "" {
		status = types.StatusActive
	}
	principal, _ := ctxutil.GetPrincipal(ctx)

	existing, err := us.unitRepo.GetByCode(ctx, tx, code)
	if err != nil {
		return nil, fmt.Errorf("lookup unit %s: %w", code, err)
	}
	if existing != nil {
		// Replace the payload but keep the original creation attribution.
		existing.Name = input.Name
		existing.Dimension = input.Dimension
		existing.CanonicalUnitCode = strings.ToUpper(strings.TrimSpace(input.CanonicalUnitCode))
		existing.ToCanonicalFactor = input.ToCanonicalFactor
		existing.Offset = input.Offset
		existing.Status = status
		if input.Source != "" {
			existing.Source = input.Source
		}
		existing.UpdatedBy = principal.ID
		if err := us.unitRepo.Save(ctx, tx, existing); err != nil {
			return nil, fmt.Errorf("update unit %s: %w", code, err)
		}
		us.log.Info("unit updated", "code", code)
		return existing, nil
	}

	unit := &types.UnitDefinition{
		ID:                us.idGen.NewID("unit", ""),
		Code:              code,
		Name:              input.Name,
		Dimension:         input.Dimension,
		CanonicalUnitCode: strings.ToUpper(strings.TrimSpace(input.CanonicalUnitCode)),
		ToCanonicalFactor: input.ToCanonicalFactor,
		Offset:            input.Offset,
		Status:            status,
		CreatedBy:         principal.ID,
		Source:            input.Source,
	}
	if unit.ToCanonicalFactor == 0 {
		unit.ToCanonicalFactor = 1
	}
	if err := us.unitRepo.Insert(ctx, tx, unit); err != nil {
		// Concurrent insert of the same code: treat the unique violation
		// as already exists and re-read.
		if again, lookupErr := us.unitRepo.GetByCode(ctx, tx, code); lookupErr == nil && again != nil {
			return again, nil
		}
		return nil, fmt.Errorf("insert unit %s: %w", code, err)
	}
	us.log.Info("unit created", "code", code, "dimension", unit.Dimension)
	return unit, nil
}

func (us *unitRegistryService) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.UnitDefinition, error) {
	unit, err := us.unitRepo.GetByCode(ctx, tx, code)
	if err != nil {
		return nil, fmt.Errorf("lookup unit %s: %w", code, err)
	}
	if unit == nil {
		return nil, apperrors.NotFoundf("unit %s", code)
	}
	return unit, nil
}

func (us *unitRegistryService) List(ctx context.Context, tx *gorm.DB, filter repos.UnitFilter, page types.PageArgs) ([]*types.UnitDefinition, int64, error) {
	return us.unitRepo.List(ctx, tx, filter, page)
}

func (us *unitRegistryService) Convert(ctx context.Context, tx *gorm.DB, value float64, fromCode, toCode string) (float64, error) {
	from, err := us.GetByCode(ctx, tx, fromCode)
	if err != nil {
		return 0, err
	}
	to, err := us.GetByCode(ctx, tx, toCode)
	if err != nil {
		return 0, err
	}
	if from.Dimension == "" || from.Dimension != to.Dimension {
		return 0, apperrors.Validationf("units %s and %s are not interconvertible (dimensions %q vs %q)", from.Code, to.Code, from.Dimension, to.Dimension)
	}
	return to.FromCanonical(from.ToCanonical(value)), nil
}
