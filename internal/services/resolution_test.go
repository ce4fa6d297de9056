package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/types"
)

func TestResolveTagPrefersGlobal(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	global, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "excavator", Synonyms: []string{"digger"}})
	require.NoError(t, err)

	// Hit through the synonym, not the label.
	res, err := env.resolution.ResolveTag(ctx, nil, "ws_a", TagCreateInput{Label: "digger"}, true)
	require.NoError(t, err)
	require.Equal(t, types.ScopeGlobal, res.Scope)
	require.False(t, res.Created)
	require.NotNil(t, res.Global)
	require.Equal(t, global.ID, res.Global.ID)
	require.Nil(t, res.Workspace)
}

func TestResolveTagDraftsInWorkspace(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	res, err := env.resolution.ResolveTag(ctx, nil, "ws_a", TagCreateInput{Label: "Quick Coupler"}, true)
	require.NoError(t, err)
	require.Equal(t, types.ScopeWorkspace, res.Scope)
	require.True(t, res.Created)
	require.Equal(t, "quick_coupler", res.Workspace.Label)

	// Second resolve finds the draft instead of minting another.
	again, err := env.resolution.ResolveTag(ctx, nil, "ws_a", TagCreateInput{Label: "quick-coupler"}, true)
	require.NoError(t, err)
	require.False(t, again.Created)
	require.Equal(t, res.Workspace.ID, again.Workspace.ID)
}

func TestResolvePhysicalAttributeTypeRefusesToDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	_, err := env.resolution.ResolveAttributeType(ctx, nil, "ws_a", AttributeTypeInput{
		Name:      "torque",
		Kind:      types.KindPhysical,
		ValueType: types.ValueNumber,
	}, true)
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrOrdering), "got %v", err)

	// Seeding the global registry unblocks the same call.
	seeded := env.seedAttrType(t, "torque", types.KindPhysical, types.ValueNumber)
	res, err := env.resolution.ResolveAttributeType(ctx, nil, "ws_a", AttributeTypeInput{
		Name:      "torque",
		Kind:      types.KindPhysical,
		ValueType: types.ValueNumber,
	}, true)
	require.NoError(t, err)
	require.Equal(t, types.ScopeGlobal, res.Scope)
	require.Equal(t, seeded.ID, res.Global.ID)
}

func TestResolveBrandAttributeTypeDrafts(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	res, err := env.resolution.ResolveAttributeType(ctx, nil, "ws_a", AttributeTypeInput{
		Name:      "paint system",
		Kind:      types.KindBrand,
		ValueType: types.ValueEnum,
	}, true)
	require.NoError(t, err)
	require.Equal(t, types.ScopeWorkspace, res.Scope)
	require.True(t, res.Created)
	require.Equal(t, types.StatusProposed, res.Workspace.Status)
}

func TestResolveAttributeValueFallsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	attrType := env.seedAttrType(t, "color", types.KindBrand, types.ValueEnum)
	global, err := env.values.Create(ctx, nil, AttributeValueInput{
		AttributeTypeID: attrType.ID,
		Value:           "safety yellow",
	})
	require.NoError(t, err)

	hit, err := env.resolution.ResolveAttributeValue(ctx, nil, "ws_a", AttributeValueInput{
		AttributeTypeID: attrType.ID,
		Value:           "Safety Yellow",
	}, true)
	require.NoError(t, err)
	require.Equal(t, types.ScopeGlobal, hit.Scope)
	require.Equal(t, global.ID, hit.Global.ID)
}

func TestResolveUnitNeverDrafts(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	_, err := env.resolution.ResolveUnit(ctx, nil, "NM")
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrOrdering), "got %v", err)

	env.seedUnit(t, "NM", "torque", "NM", 1, 0)
	unit, err := env.resolution.ResolveUnit(ctx, nil, "nm")
	require.NoError(t, err)
	require.Equal(t, "NM", unit.Code)
}

func TestResolveAttributeValueMapsTypeAcrossTiers(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	draft, err := env.attrs.CreateWorkspace(ctx, nil, "ws_a", AttributeTypeInput{
		Name:      "paint system",
		Kind:      types.KindBrand,
		ValueType: types.ValueEnum,
	})
	require.NoError(t, err)
	globalType, err := env.promotion.PromoteAttributeTypeToGlobal(ctx, nil, draft.ID, "")
	require.NoError(t, err)
	globalValue, err := env.values.Create(ctx, nil, AttributeValueInput{
		AttributeTypeID: globalType.ID,
		Value:           "gloss black",
	})
	require.NoError(t, err)

	// Probing with the workspace draft's id still reaches the global value.
	res, err := env.resolution.ResolveAttributeValue(ctx, nil, "ws_a", AttributeValueInput{
		AttributeTypeID: draft.ID,
		Value:           "Gloss Black",
	}, true)
	require.NoError(t, err)
	require.Equal(t, types.ScopeGlobal, res.Scope)
	require.Equal(t, globalValue.ID, res.Global.ID)

	// And drafting through the global id lands under the workspace type.
	ws, err := env.resolution.ResolveAttributeValue(ctx, nil, "ws_a", AttributeValueInput{
		AttributeTypeID: globalType.ID,
		Value:           "matte green",
	}, true)
	require.NoError(t, err)
	require.Equal(t, types.ScopeWorkspace, ws.Scope)
	require.True(t, ws.Created)
	require.Equal(t, draft.ID, ws.Workspace.AttributeTypeID)
}

func TestResolveAttributeValueNeedsWorkspaceType(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	globalType := env.seedAttrType(t, "color", types.KindBrand, types.ValueEnum)
	_, err := env.resolution.ResolveAttributeValue(ctx, nil, "ws_a", AttributeValueInput{
		AttributeTypeID: globalType.ID,
		Value:           "safety yellow",
	}, true)
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrOrdering), "got %v", err)
}
