package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/repos"
	"github.com/vocabhub/vocab-backend/internal/types"
)

func TestUnitUpsertByCodeIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	first := env.seedUnit(t, "mm", "length", "M", 0.001, 0)
	require.Equal(t, "MM", first.Code)

	again, err := env.units.UpsertByCode(ctx, nil, UnitDefinitionInput{
		Code:              "MM",
		Name:              "millimeter",
		Dimension:         "length",
		CanonicalUnitCode: "M",
		ToCanonicalFactor: 0.001,
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
	require.Equal(t, "millimeter", again.Name)

	_, total, err := env.units.List(ctx, nil, repos.UnitFilter{Dimension: "length"}, types.PageArgs{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestUnitConvertThroughCanonical(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()
	env.seedUnit(t, "M", "length", "M", 1, 0)
	env.seedUnit(t, "MM", "length", "M", 0.001, 0)
	env.seedUnit(t, "KG", "mass", "KG", 1, 0)
	env.seedUnit(t, "C", "temperature", "K", 1, 273.15)
	env.seedUnit(t, "F", "temperature", "K", 5.0/9.0, 459.67)

	meters, err := env.units.Convert(ctx, nil, 1000, "mm", "m")
	require.NoError(t, err)
	require.InDelta(t, 1.0, meters, 1e-9)

	fahrenheit, err := env.units.Convert(ctx, nil, 100, "C", "F")
	require.NoError(t, err)
	require.InDelta(t, 212.0, fahrenheit, 1e-9)

	_, err = env.units.Convert(ctx, nil, 1, "KG", "M")
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrValidation), "got %v", err)
}

func TestUnitGetByCodeMissing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.units.GetByCode(testCtx(), nil, "FURLONG")
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrNotFound), "got %v", err)
}
