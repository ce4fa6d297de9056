package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/vocabhub/vocab-backend/internal/ids"
	"github.com/vocabhub/vocab-backend/internal/pkg/logger"
	"github.com/vocabhub/vocab-backend/internal/services"
)

type Services struct {
	Lint           services.LintService
	Units          services.UnitRegistryService
	Tags           services.TagRegistryService
	AttributeTypes services.AttributeTypeRegistryService
	AttributeVals  services.AttributeValueRegistryService
	Relations      services.RelationService
	ParseRules     services.ParseRuleService
	Resolution     services.ResolutionService
	Promotion      services.PromotionService
	Merge          services.MergeService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	lintCfg, err := services.LoadLintConfig(cfg.LintConfigPath)
	if err != nil {
		return Services{}, fmt.Errorf("load lint config: %w", err)
	}

	idGen := ids.NewGenerator()
	oracle := services.AllowAllOracle{}

	lint := services.NewLintService(log, lintCfg, reposet.Unit, reposet.AttributeType)
	units := services.NewUnitRegistryService(db, log, idGen, reposet.Unit)
	tags := services.NewTagRegistryService(db, log, idGen, oracle, lint, reposet.Tag, reposet.WorkspaceTag)
	attrs := services.NewAttributeTypeRegistryService(db, log, idGen, oracle, lint, reposet.AttributeType, reposet.WorkspaceAttributeType)
	vals := services.NewAttributeValueRegistryService(db, log, idGen, oracle, reposet.AttributeValue, reposet.WorkspaceAttributeValue, reposet.AttributeType, reposet.WorkspaceAttributeType)
	relations := services.NewRelationService(db, log, idGen, reposet.Tag, reposet.AttributeType, reposet.TagRelation, reposet.AttributeRelation)
	parseRules := services.NewParseRuleService(db, log, idGen, reposet.ParseRule, reposet.AttributeType, reposet.Unit)
	resolution := services.NewResolutionService(db, log, tags, attrs, vals, units)
	promotion := services.NewPromotionService(db, log, oracle, tags, attrs, vals,
		reposet.WorkspaceTag, reposet.WorkspaceAttributeType, reposet.WorkspaceAttributeValue,
		reposet.Tag, reposet.AttributeType, reposet.AttributeValue)
	merge := services.NewMergeService(db, log, reposet.Tag, reposet.TagRelation, reposet.ParseRule)

	return Services{
		Lint:           lint,
		Units:          units,
		Tags:           tags,
		AttributeTypes: attrs,
		AttributeVals:  vals,
		Relations:      relations,
		ParseRules:     parseRules,
		Resolution:     resolution,
		Promotion:      promotion,
		Merge:          merge,
	}, nil
}
