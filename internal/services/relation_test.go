package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/pkg/pointers"
	"github.com/vocabhub/vocab-backend/internal/types"
)

func TestCreateTagRelationIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	a, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "excavator"})
	require.NoError(t, err)
	b, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "earthmoving"})
	require.NoError(t, err)

	rel, err := env.relations.CreateTagRelation(ctx, nil, TagRelationInput{
		FromTagID:    a.ID,
		ToTagID:      b.ID,
		RelationType: types.TagRelBroader,
		Confidence:   pointers.Float64(0.9),
	})
	require.NoError(t, err)

	again, err := env.relations.CreateTagRelation(ctx, nil, TagRelationInput{
		FromTagID:    a.ID,
		ToTagID:      b.ID,
		RelationType: types.TagRelBroader,
	})
	require.NoError(t, err)
	require.Equal(t, rel.ID, again.ID)

	// Same pair under a different type is a distinct edge.
	other, err := env.relations.CreateTagRelation(ctx, nil, TagRelationInput{
		FromTagID:    a.ID,
		ToTagID:      b.ID,
		RelationType: types.TagRelRelated,
	})
	require.NoError(t, err)
	require.NotEqual(t, rel.ID, other.ID)
}

func TestCreateTagRelationValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	a, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "excavator"})
	require.NoError(t, err)

	_, err = env.relations.CreateTagRelation(ctx, nil, TagRelationInput{FromTagID: a.ID, ToTagID: a.ID, RelationType: types.TagRelRelated})
	require.True(t, apperrors.Is(err, apperrors.ErrValidation), "got %v", err)

	_, err = env.relations.CreateTagRelation(ctx, nil, TagRelationInput{FromTagID: a.ID, ToTagID: "tag_missing", RelationType: types.TagRelRelated})
	require.True(t, apperrors.Is(err, apperrors.ErrNotFound), "got %v", err)

	b, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "earthmoving"})
	require.NoError(t, err)
	_, err = env.relations.CreateTagRelation(ctx, nil, TagRelationInput{FromTagID: a.ID, ToTagID: b.ID, RelationType: types.TagRelRelated, Confidence: pointers.Float64(1.5)})
	require.True(t, apperrors.Is(err, apperrors.ErrValidation), "got %v", err)

	_, err = env.relations.CreateTagRelation(ctx, nil, TagRelationInput{FromTagID: a.ID, ToTagID: b.ID, RelationType: "SIBLING"})
	require.True(t, apperrors.Is(err, apperrors.ErrValidation), "got %v", err)
}

func TestAttributeRelationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	mass := env.seedAttrType(t, "mass", types.KindPhysical, types.ValueNumber)
	weight := env.seedAttrType(t, "weight", types.KindPhysical, types.ValueNumber)

	rel, err := env.relations.CreateAttributeRelation(ctx, nil, AttributeRelationInput{
		FromAttributeID: weight.ID,
		ToAttributeID:   mass.ID,
		RelationType:    types.AttrRelReplaces,
	})
	require.NoError(t, err)

	listed, err := env.relations.ListAttributeRelations(ctx, nil, mass.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, rel.ID, listed[0].ID)

	require.NoError(t, env.relations.DeleteAttributeRelation(ctx, nil, rel.ID))
	listed, err = env.relations.ListAttributeRelations(ctx, nil, mass.ID)
	require.NoError(t, err)
	require.Empty(t, listed)

	err = env.relations.DeleteAttributeRelation(ctx, nil, rel.ID)
	require.True(t, apperrors.Is(err, apperrors.ErrNotFound), "got %v", err)
}
