package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vocabhub/vocab-backend/internal/db"
	"github.com/vocabhub/vocab-backend/internal/ids"
	"github.com/vocabhub/vocab-backend/internal/pkg/ctxutil"
	"github.com/vocabhub/vocab-backend/internal/pkg/logger"
	"github.com/vocabhub/vocab-backend/internal/repos"
	"github.com/vocabhub/vocab-backend/internal/types"
)

// testEnv wires the full service stack over an in-memory sqlite schema,
// mirroring the production wiring minus postgres.
type testEnv struct {
	db *gorm.DB

	unitRepo      repos.UnitRepo
	tagRepo       repos.TagRepo
	wsTagRepo     repos.WorkspaceTagRepo
	attrRepo      repos.AttributeTypeRepo
	wsAttrRepo    repos.WorkspaceAttributeTypeRepo
	valueRepo     repos.AttributeValueRepo
	wsValueRepo   repos.WorkspaceAttributeValueRepo
	tagRelRepo    repos.TagRelationRepo
	attrRelRepo   repos.AttributeRelationRepo
	parseRuleRepo repos.ParseRuleRepo

	units      UnitRegistryService
	tags       TagRegistryService
	attrs      AttributeTypeRegistryService
	values     AttributeValueRegistryService
	relations  RelationService
	parseRules ParseRuleService
	resolution ResolutionService
	promotion  PromotionService
	merge      MergeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// One connection so the shared in-memory database survives the pool.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(gdb))

	log := logger.NewNop()
	idGen := ids.NewGenerator()
	oracle := AllowAllOracle{}

	env := &testEnv{db: gdb}
	env.unitRepo = repos.NewUnitRepo(gdb, log)
	env.tagRepo = repos.NewTagRepo(gdb, log)
	env.wsTagRepo = repos.NewWorkspaceTagRepo(gdb, log)
	env.attrRepo = repos.NewAttributeTypeRepo(gdb, log)
	env.wsAttrRepo = repos.NewWorkspaceAttributeTypeRepo(gdb, log)
	env.valueRepo = repos.NewAttributeValueRepo(gdb, log)
	env.wsValueRepo = repos.NewWorkspaceAttributeValueRepo(gdb, log)
	env.tagRelRepo = repos.NewTagRelationRepo(gdb, log)
	env.attrRelRepo = repos.NewAttributeRelationRepo(gdb, log)
	env.parseRuleRepo = repos.NewParseRuleRepo(gdb, log)

	lint := NewLintService(log, DefaultLintConfig(), env.unitRepo, env.attrRepo)
	env.units = NewUnitRegistryService(gdb, log, idGen, env.unitRepo)
	env.tags = NewTagRegistryService(gdb, log, idGen, oracle, lint, env.tagRepo, env.wsTagRepo)
	env.attrs = NewAttributeTypeRegistryService(gdb, log, idGen, oracle, lint, env.attrRepo, env.wsAttrRepo)
	env.values = NewAttributeValueRegistryService(gdb, log, idGen, oracle, env.valueRepo, env.wsValueRepo, env.attrRepo, env.wsAttrRepo)
	env.relations = NewRelationService(gdb, log, idGen, env.tagRepo, env.attrRepo, env.tagRelRepo, env.attrRelRepo)
	env.parseRules = NewParseRuleService(gdb, log, idGen, env.parseRuleRepo, env.attrRepo, env.unitRepo)
	env.resolution = NewResolutionService(gdb, log, env.tags, env.attrs, env.values, env.units)
	env.promotion = NewPromotionService(gdb, log, oracle, env.tags, env.attrs, env.values,
		env.wsTagRepo, env.wsAttrRepo, env.wsValueRepo, env.tagRepo, env.attrRepo, env.valueRepo)
	env.merge = NewMergeService(gdb, log, env.tagRepo, env.tagRelRepo, env.parseRuleRepo)
	return env
}

func testCtx() context.Context {
	return ctxutil.WithPrincipal(context.Background(), ctxutil.Principal{ID: "user_curator", CompanyID: "co_acme"})
}

func contextWithoutPrincipal() context.Context {
	return context.Background()
}

func (e *testEnv) seedUnit(t *testing.T, code, dimension, canonical string, factor, offset float64) *types.UnitDefinition {
	t.Helper()
	unit, err := e.units.UpsertByCode(testCtx(), nil, UnitDefinitionInput{
		Code:              code,
		Dimension:         dimension,
		CanonicalUnitCode: canonical,
		ToCanonicalFactor: factor,
		Offset:            offset,
	})
	require.NoError(t, err)
	return unit
}

func (e *testEnv) seedAttrType(t *testing.T, name string, kind types.AttributeKind, valueType types.ValueType) *types.AttributeType {
	t.Helper()
	at, err := e.attrs.Create(testCtx(), nil, AttributeTypeInput{
		Name:      name,
		Kind:      kind,
		ValueType: valueType,
	})
	require.NoError(t, err)
	return at
}
