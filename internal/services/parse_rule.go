package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vocabhub/vocab-backend/internal/ids"
	"github.com/vocabhub/vocab-backend/internal/normalization"
	"github.com/vocabhub/vocab-backend/internal/pkg/ctxutil"
	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/pkg/logger"
	"github.com/vocabhub/vocab-backend/internal/repos"
	"github.com/vocabhub/vocab-backend/internal/types"
)

type ParseRuleInput struct {
	Raw             string
	AttributeTypeID string
	UnitCode        string
	ContextTagIDs   []string
	Notes           string
}

// ParseRuleService maps raw source-document keys ("Max. Load (kg)") onto
// registered attribute types. Raw keys are normalized with a gentler rule
// than labels: punctuation inside the key is significant and survives.
type ParseRuleService interface {
	Upsert(ctx context.Context, tx *gorm.DB, input ParseRuleInput) (*types.ParseRule, error)
	FindByRawKey(ctx context.Context, tx *gorm.DB, rawKey string) (*types.ParseRule, error)
	List(ctx context.Context, tx *gorm.DB, attributeTypeID string, page types.PageArgs) ([]*types.ParseRule, int64, error)
}

type parseRuleService struct {
	db       *gorm.DB
	log      *logger.Logger
	idGen    ids.Generator
	ruleRepo repos.ParseRuleRepo
	attrRepo repos.AttributeTypeRepo
	unitRepo repos.UnitRepo
}

func NewParseRuleService(
	db *gorm.DB,
	baseLog *logger.Logger,
	idGen ids.Generator,
	ruleRepo repos.ParseRuleRepo,
	attrRepo repos.AttributeTypeRepo,
	unitRepo repos.UnitRepo,
) ParseRuleService {
	serviceLog := baseLog.With("service", "ParseRuleService")
	return &parseRuleService{
		db:       db,
		log:      serviceLog,
		idGen:    idGen,
		ruleRepo: ruleRepo,
		attrRepo: attrRepo,
		unitRepo: unitRepo,
	}
}

func (ps *parseRuleService) Upsert(ctx context.Context, tx *gorm.DB, input ParseRuleInput) (*types.ParseRule, error) {
	raw := strings.TrimSpace(input.Raw)
	rawKey := normalization.NormalizeParseKey(raw)
	if rawKey == "" {
		return nil, apperrors.Validationf("raw key is required")
	}
	if input.AttributeTypeID == "" {
		return nil, apperrors.Validationf("attribute type id is required")
	}
	attr, err := ps.attrRepo.GetByID(ctx, tx, input.AttributeTypeID)
	if err != nil {
		return nil, fmt.Errorf("load attribute type %s: %w", input.AttributeTypeID, err)
	}
	if attr == nil {
		return nil, apperrors.NotFoundf("attribute type %s", input.AttributeTypeID)
	}

	unitCode := strings.ToUpper(strings.TrimSpace(input.UnitCode))
	if unitCode != "" {
		unit, err := ps.unitRepo.GetByCode(ctx, tx, unitCode)
		if err != nil {
			return nil, fmt.Errorf("load unit %s: %w", unitCode, err)
		}
		if unit == nil {
			return nil, apperrors.NotFoundf("unit %s", unitCode)
		}
	}

	principal, _ := ctxutil.GetPrincipal(ctx)
	contextIDs := dedupeIDs(input.ContextTagIDs)

	existing, err := ps.ruleRepo.FindOneByRawKey(ctx, tx, rawKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Raw = raw
		existing.AttributeTypeID = input.AttributeTypeID
		existing.UnitCode = unitCode
		existing.ContextTagIDs = datatypes.NewJSONSlice(contextIDs)
		existing.Notes = strings.TrimSpace(input.Notes)
		existing.UpdatedBy = principal.ID
		if err := ps.ruleRepo.Save(ctx, tx, existing); err != nil {
			return nil, fmt.Errorf("save parse rule %s: %w", existing.ID, err)
		}
		return existing, nil
	}

	rule := &types.ParseRule{
		ID:              ps.idGen.NewID("parse_rule", "global"),
		Raw:             raw,
		RawKey:          rawKey,
		AttributeTypeID: input.AttributeTypeID,
		UnitCode:        unitCode,
		ContextTagIDs:   datatypes.NewJSONSlice(contextIDs),
		Notes:           strings.TrimSpace(input.Notes),
		CreatedBy:       principal.ID,
		UpdatedBy:       principal.ID,
	}
	if err := ps.ruleRepo.Insert(ctx, tx, rule); err != nil {
		// Unique index on raw_key: a concurrent writer won; take its row.
		raced, findErr := ps.ruleRepo.FindOneByRawKey(ctx, tx, rawKey)
		if findErr == nil && raced != nil {
			return raced, nil
		}
		return nil, fmt.Errorf("insert parse rule %q: %w", rawKey, err)
	}
	ps.log.Info("parse rule created", "parse_rule_id", rule.ID, "raw_key", rawKey)
	return rule, nil
}

func (ps *parseRuleService) FindByRawKey(ctx context.Context, tx *gorm.DB, rawKey string) (*types.ParseRule, error) {
	key := normalization.NormalizeParseKey(rawKey)
	if key == "" {
		return nil, apperrors.Validationf("raw key is required")
	}
	return ps.ruleRepo.FindOneByRawKey(ctx, tx, key)
}

func (ps *parseRuleService) List(ctx context.Context, tx *gorm.DB, attributeTypeID string, page types.PageArgs) ([]*types.ParseRule, int64, error) {
	return ps.ruleRepo.List(ctx, tx, attributeTypeID, page)
}

func dedupeIDs(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, id := range in {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
