package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/types"
)

func TestMergeTagFoldsIdentityAndRetiresSource(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	target, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "excavator"})
	require.NoError(t, err)
	source, err := env.tags.CreateTag(ctx, nil, TagCreateInput{
		Label:    "digger",
		Synonyms: []string{"Mini Digger"},
	})
	require.NoError(t, err)

	merged, err := env.merge.MergeTag(ctx, nil, source.ID, target.ID, "duplicate concept")
	require.NoError(t, err)
	require.Equal(t, target.ID, merged.ID)
	require.ElementsMatch(t, []string{"digger", "mini_digger"}, []string(merged.Synonyms))

	retired, err := env.tags.GetTag(ctx, nil, source.ID)
	require.NoError(t, err)
	require.Equal(t, types.StatusDeprecated, retired.Status)
	require.Equal(t, target.ID, retired.MergedIntoID)
	require.Contains(t, retired.Notes, "duplicate concept")

	// Lookups on the absorbed identity land on the target.
	resolved, err := env.tags.FindByLabelOrSynonym(ctx, nil, "digger")
	require.NoError(t, err)
	require.Equal(t, target.ID, resolved.ID)
}

func TestMergeTagIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	target, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "excavator"})
	require.NoError(t, err)
	source, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "digger"})
	require.NoError(t, err)

	first, err := env.merge.MergeTag(ctx, nil, source.ID, target.ID, "")
	require.NoError(t, err)
	second, err := env.merge.MergeTag(ctx, nil, source.ID, target.ID, "")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestMergeTagRejectsSelfRetargetAndCycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	a, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "excavator"})
	require.NoError(t, err)
	b, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "digger"})
	require.NoError(t, err)
	c, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "trackhoe"})
	require.NoError(t, err)

	_, err = env.merge.MergeTag(ctx, nil, a.ID, a.ID, "")
	require.True(t, apperrors.Is(err, apperrors.ErrValidation), "got %v", err)

	_, err = env.merge.MergeTag(ctx, nil, b.ID, a.ID, "")
	require.NoError(t, err)

	// b is already merged into a; pointing it somewhere else is refused.
	_, err = env.merge.MergeTag(ctx, nil, b.ID, c.ID, "")
	require.True(t, apperrors.Is(err, apperrors.ErrConflict), "got %v", err)

	// a -> b would close the loop: b's chain already ends at a.
	_, err = env.merge.MergeTag(ctx, nil, a.ID, b.ID, "")
	require.True(t, apperrors.Is(err, apperrors.ErrValidation), "got %v", err)
}

func TestMergeTagResolvesTargetChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	a, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "excavator"})
	require.NoError(t, err)
	b, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "digger"})
	require.NoError(t, err)
	c, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "trackhoe"})
	require.NoError(t, err)

	_, err = env.merge.MergeTag(ctx, nil, b.ID, a.ID, "")
	require.NoError(t, err)

	// Merging into an absorbed tag lands on the end of its chain.
	merged, err := env.merge.MergeTag(ctx, nil, c.ID, b.ID, "")
	require.NoError(t, err)
	require.Equal(t, a.ID, merged.ID)

	resolved, err := env.tags.FindByLabelOrSynonym(ctx, nil, "trackhoe")
	require.NoError(t, err)
	require.Equal(t, a.ID, resolved.ID)
}

func TestMergeTagRewiresRelations(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	a, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "excavator"})
	require.NoError(t, err)
	b, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "digger"})
	require.NoError(t, err)
	c, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "earthmoving"})
	require.NoError(t, err)

	// One relation survives as a repoint, one collides with an existing
	// relation and is dropped, one becomes a self-loop and is dropped.
	_, err = env.relations.CreateTagRelation(ctx, nil, TagRelationInput{FromTagID: b.ID, ToTagID: c.ID, RelationType: types.TagRelBroader})
	require.NoError(t, err)
	_, err = env.relations.CreateTagRelation(ctx, nil, TagRelationInput{FromTagID: a.ID, ToTagID: c.ID, RelationType: types.TagRelBroader})
	require.NoError(t, err)
	_, err = env.relations.CreateTagRelation(ctx, nil, TagRelationInput{FromTagID: b.ID, ToTagID: a.ID, RelationType: types.TagRelRelated})
	require.NoError(t, err)

	_, err = env.merge.MergeTag(ctx, nil, b.ID, a.ID, "")
	require.NoError(t, err)

	remaining, err := env.relations.ListTagRelations(ctx, nil, a.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, a.ID, remaining[0].FromTagID)
	require.Equal(t, c.ID, remaining[0].ToTagID)
	require.Equal(t, types.TagRelBroader, remaining[0].RelationType)

	orphaned, err := env.relations.ListTagRelations(ctx, nil, b.ID)
	require.NoError(t, err)
	require.Empty(t, orphaned)
}

func TestMergeTagRewritesParseRuleContexts(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	a, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "excavator"})
	require.NoError(t, err)
	b, err := env.tags.CreateTag(ctx, nil, TagCreateInput{Label: "digger"})
	require.NoError(t, err)

	attr := env.seedAttrType(t, "operating mass", types.KindPhysical, types.ValueNumber)
	env.seedUnit(t, "KG", "mass", "KG", 1, 0)

	rule, err := env.parseRules.Upsert(ctx, nil, ParseRuleInput{
		Raw:             "Operating Weight (kg)",
		AttributeTypeID: attr.ID,
		UnitCode:        "kg",
		ContextTagIDs:   []string{a.ID, b.ID},
	})
	require.NoError(t, err)

	_, err = env.merge.MergeTag(ctx, nil, b.ID, a.ID, "")
	require.NoError(t, err)

	rewritten, err := env.parseRules.FindByRawKey(ctx, nil, rule.RawKey)
	require.NoError(t, err)
	require.NotNil(t, rewritten)
	// The duplicate collapses: a appeared already, b rewrote to a.
	require.Equal(t, []string{a.ID}, []string(rewritten.ContextTagIDs))
}
