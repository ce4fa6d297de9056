package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/repos"
	"github.com/vocabhub/vocab-backend/internal/types"
)

func TestPromoteTagCreatesGlobal(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	wsTag, err := env.tags.CreateWorkspaceTag(ctx, nil, "ws_a", TagCreateInput{
		Label:    "Quick Coupler",
		Synonyms: []string{"hitch"},
	})
	require.NoError(t, err)

	global, err := env.promotion.PromoteTagToGlobal(ctx, nil, wsTag.ID, "")
	require.NoError(t, err)
	require.Equal(t, "quick_coupler", global.Label)
	require.Equal(t, types.StatusProposed, global.Status)
	require.Equal(t, "workspace_promotion", global.Source)

	reloaded, err := env.wsTagRepo.GetByID(ctx, nil, wsTag.ID)
	require.NoError(t, err)
	require.Equal(t, global.ID, reloaded.GlobalTagID)

	// Re-promotion is a no-op returning the linked global.
	again, err := env.promotion.PromoteTagToGlobal(ctx, nil, wsTag.ID, "")
	require.NoError(t, err)
	require.Equal(t, global.ID, again.ID)

	_, total, err := env.tags.List(ctx, nil, repos.TagFilter{}, types.PageArgs{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestPromoteTagDedupsAgainstExistingGlobal(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	existing, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "excavator"})
	require.NoError(t, err)

	wsTag, err := env.tags.CreateWorkspaceTag(ctx, nil, "ws_a", TagCreateInput{Label: "Excavator"})
	require.NoError(t, err)

	global, err := env.promotion.PromoteTagToGlobal(ctx, nil, wsTag.ID, "")
	require.NoError(t, err)
	require.Equal(t, existing.ID, global.ID)

	_, total, err := env.tags.List(ctx, nil, repos.TagFilter{}, types.PageArgs{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestPromoteTagToExplicitTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	target, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "excavator"})
	require.NoError(t, err)
	wsTag, err := env.tags.CreateWorkspaceTag(ctx, nil, "ws_a", TagCreateInput{Label: "trackhoe"})
	require.NoError(t, err)

	global, err := env.promotion.PromoteTagToGlobal(ctx, nil, wsTag.ID, target.ID)
	require.NoError(t, err)
	require.Equal(t, target.ID, global.ID)

	reloaded, err := env.wsTagRepo.GetByID(ctx, nil, wsTag.ID)
	require.NoError(t, err)
	require.Equal(t, target.ID, reloaded.GlobalTagID)
}

func TestPromoteValueRequiresPromotedType(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	wsAttr, err := env.attrs.CreateWorkspace(ctx, nil, "ws_a", AttributeTypeInput{
		Name:      "paint system",
		Kind:      types.KindBrand,
		ValueType: types.ValueEnum,
	})
	require.NoError(t, err)
	wsValue, err := env.values.CreateWorkspace(ctx, nil, "ws_a", AttributeValueInput{
		AttributeTypeID: wsAttr.ID,
		Value:           "two-coat epoxy",
	})
	require.NoError(t, err)

	// Values cannot jump the queue: the owning type goes first.
	_, err = env.promotion.PromoteAttributeValueToGlobal(ctx, nil, wsValue.ID, "")
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrOrdering), "got %v", err)

	globalAttr, err := env.promotion.PromoteAttributeTypeToGlobal(ctx, nil, wsAttr.ID, "")
	require.NoError(t, err)
	require.Equal(t, types.StatusProposed, globalAttr.Status)

	globalValue, err := env.promotion.PromoteAttributeValueToGlobal(ctx, nil, wsValue.ID, "")
	require.NoError(t, err)
	require.Equal(t, globalAttr.ID, globalValue.AttributeTypeID)
	require.Equal(t, "workspace_promotion", globalValue.Source)

	reloaded, err := env.wsValueRepo.GetByID(ctx, nil, wsValue.ID)
	require.NoError(t, err)
	require.Equal(t, globalValue.ID, reloaded.GlobalAttributeValueID)
}

func TestPromoteAttributeTypeDedupsBySynonym(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	existing, err := env.attrs.Create(ctx, nil, AttributeTypeInput{
		Name:      "mass",
		Kind:      types.KindPhysical,
		ValueType: types.ValueNumber,
		Synonyms:  []string{"operating weight"},
	})
	require.NoError(t, err)

	wsAttr, err := env.attrs.CreateWorkspace(ctx, nil, "ws_a", AttributeTypeInput{
		Name:      "weight",
		Kind:      types.KindBrand,
		ValueType: types.ValueNumber,
		Synonyms:  []string{"operating weight"},
	})
	require.NoError(t, err)

	global, err := env.promotion.PromoteAttributeTypeToGlobal(ctx, nil, wsAttr.ID, "")
	require.NoError(t, err)
	require.Equal(t, existing.ID, global.ID)
}
