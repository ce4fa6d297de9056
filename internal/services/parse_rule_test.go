package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/types"
)

func TestParseRuleUpsertNormalizesRawKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()
	attr := env.seedAttrType(t, "payload mass", types.KindPhysical, types.ValueNumber)
	env.seedUnit(t, "KG", "mass", "KG", 1, 0)

	rule, err := env.parseRules.Upsert(ctx, nil, ParseRuleInput{
		Raw:             "  Max. Load (kg) ",
		AttributeTypeID: attr.ID,
		UnitCode:        "kg",
		Notes:           "from datasheet header",
	})
	require.NoError(t, err)
	// Punctuation inside the key is significant; only whitespace and
	// hyphen runs collapse. The original string survives alongside the key.
	require.Equal(t, "max._load_(kg)", rule.RawKey)
	require.Equal(t, "Max. Load (kg)", rule.Raw)
	require.Equal(t, "KG", rule.UnitCode)
	require.Equal(t, "from datasheet header", rule.Notes)

	found, err := env.parseRules.FindByRawKey(ctx, nil, "MAX. LOAD (KG)")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, rule.ID, found.ID)
}

func TestParseRuleUpsertReplacesMapping(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()
	first := env.seedAttrType(t, "payload mass", types.KindPhysical, types.ValueNumber)
	second := env.seedAttrType(t, "gross mass", types.KindPhysical, types.ValueNumber)

	rule, err := env.parseRules.Upsert(ctx, nil, ParseRuleInput{Raw: "Load", AttributeTypeID: first.ID})
	require.NoError(t, err)

	updated, err := env.parseRules.Upsert(ctx, nil, ParseRuleInput{Raw: "load", AttributeTypeID: second.ID})
	require.NoError(t, err)
	require.Equal(t, rule.ID, updated.ID)
	require.Equal(t, second.ID, updated.AttributeTypeID)
	require.Equal(t, "load", updated.Raw)

	rules, total, err := env.parseRules.List(ctx, nil, second.ID, types.PageArgs{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, rules, 1)
}

func TestParseRuleRejectsUnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()
	attr := env.seedAttrType(t, "payload mass", types.KindPhysical, types.ValueNumber)

	_, err := env.parseRules.Upsert(ctx, nil, ParseRuleInput{Raw: "Load", AttributeTypeID: "attr_missing"})
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrNotFound), "got %v", err)

	_, err = env.parseRules.Upsert(ctx, nil, ParseRuleInput{Raw: "Load", AttributeTypeID: attr.ID, UnitCode: "FURLONG"})
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrNotFound), "got %v", err)
}
