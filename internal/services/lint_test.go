package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/pkg/pointers"
	"github.com/vocabhub/vocab-backend/internal/types"
)

func TestLintBlocksUnitCodeAsTag(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()
	env.seedUnit(t, "KG", "mass", "KG", 1, 0)

	_, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "kg"})
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrLint), "got %v", err)
}

func TestLintBlocksAttributeTypeNameAsTag(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()
	env.seedAttrType(t, "weight", types.KindPhysical, types.ValueNumber)

	_, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "Weight"})
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrLint), "got %v", err)

	// Underscore/space expansion probes both spellings.
	env.seedAttrType(t, "ground clearance", types.KindPhysical, types.ValueNumber)
	_, err = env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "Ground_Clearance"})
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrLint), "got %v", err)
}

func TestLintSkipsDeprecatedAttributeTypes(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()
	at := env.seedAttrType(t, "legacy torque", types.KindPhysical, types.ValueNumber)

	_, err := env.attrs.Update(ctx, nil, at.ID, AttributeTypeUpdateInput{Status: pointers.Ptr(types.StatusDeprecated)})
	require.NoError(t, err)

	tag, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "legacy torque"})
	require.NoError(t, err)
	require.Equal(t, "legacy_torque", tag.Label)
}

func TestLintBlendedTokenIsTagCleanButAttributeDirty(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	// Qualifier words are fine as tags; they only poison PHYSICAL
	// attribute type names.
	tag, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "overall"})
	require.NoError(t, err)
	require.Equal(t, types.AuditPendingReview, tag.AuditStatus)

	_, err = env.attrs.CreateWorkspace(ctx, nil, "ws_1", AttributeTypeInput{
		Name:      "Overall Width",
		Kind:      types.KindPhysical,
		ValueType: types.ValueNumber,
	})
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrLint), "got %v", err)

	_, err = env.attrs.CreateWorkspace(ctx, nil, "ws_1", AttributeTypeInput{
		Name:      "width",
		Kind:      types.KindPhysical,
		ValueType: types.ValueNumber,
	})
	require.NoError(t, err)
}

func TestLintDiscouragedLabelFlagsButCreates(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	tag, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "Capacity"})
	require.NoError(t, err)
	require.Equal(t, types.AuditFlagged, tag.AuditStatus)
	require.Contains(t, tag.Notes, "lint:")
	require.Contains(t, tag.Notes, "discouraged")
}
