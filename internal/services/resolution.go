package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/vocabhub/vocab-backend/internal/normalization"
	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/pkg/logger"
	"github.com/vocabhub/vocab-backend/internal/types"
)

// Resolution is the outcome of a resolve-or-create call: exactly one of
// Global/Workspace is set, per Scope.
type Resolution[G any, W any] struct {
	Scope     types.Scope
	Created   bool
	Global    *G
	Workspace *W
}

// ResolutionService implements the two-tier lookup strategy shared by all
// vocabularies: probe the global registry for every identity candidate,
// fall back to a workspace draft — except for centrally curated kinds
// (units, PHYSICAL attribute types), which refuse to draft and demand the
// global registry be seeded first.
type ResolutionService interface {
	ResolveTag(ctx context.Context, tx *gorm.DB, workspaceID string, input TagCreateInput, preferGlobal bool) (Resolution[types.Tag, types.WorkspaceTag], error)
	ResolveAttributeType(ctx context.Context, tx *gorm.DB, workspaceID string, input AttributeTypeInput, preferGlobal bool) (Resolution[types.AttributeType, types.WorkspaceAttributeType], error)
	ResolveAttributeValue(ctx context.Context, tx *gorm.DB, workspaceID string, input AttributeValueInput, preferGlobal bool) (Resolution[types.AttributeValue, types.WorkspaceAttributeValue], error)
	ResolveUnit(ctx context.Context, tx *gorm.DB, code string) (*types.UnitDefinition, error)
}

type resolutionService struct {
	db       *gorm.DB
	log      *logger.Logger
	tags     TagRegistryService
	attrs    AttributeTypeRegistryService
	values   AttributeValueRegistryService
	units    UnitRegistryService
}

func NewResolutionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tags TagRegistryService,
	attrs AttributeTypeRegistryService,
	values AttributeValueRegistryService,
	units UnitRegistryService,
) ResolutionService {
	serviceLog := baseLog.With("service", "ResolutionService")
	return &resolutionService{
		db:     db,
		log:    serviceLog,
		tags:   tags,
		attrs:  attrs,
		values: values,
		units:  units,
	}
}

// scopeStrategy is the per-kind parameterization of resolveScoped: an
// ordered global probe, a workspace find, a workspace create, and the
// refuse-to-draft flag for centrally curated vocabularies.
type scopeStrategy[G any, W any] struct {
	kind            string
	refuseDraft     bool
	probeGlobal     func(candidate string) (*G, error)
	findWorkspace   func() (*W, error)
	createWorkspace func() (*W, error)
}

func resolveScoped[G any, W any](candidates []string, preferGlobal bool, strat scopeStrategy[G, W]) (Resolution[G, W], error) {
	var out Resolution[G, W]
	if preferGlobal {
		for _, candidate := range candidates {
			hit, err := strat.probeGlobal(candidate)
			if err != nil {
				return out, err
			}
			if hit != nil {
				out.Scope = types.ScopeGlobal
				out.Global = hit
				return out, nil
			}
		}
	}
	if strat.refuseDraft {
		return out, apperrors.Orderingf("%s %q is centrally curated and has no global match; seed the global registry before resolving", strat.kind, firstOr(candidates, ""))
	}
	existing, err := strat.findWorkspace()
	if err != nil {
		return out, err
	}
	if existing != nil {
		out.Scope = types.ScopeWorkspace
		out.Workspace = existing
		return out, nil
	}
	created, err := strat.createWorkspace()
	if err != nil {
		return out, err
	}
	out.Scope = types.ScopeWorkspace
	out.Created = true
	out.Workspace = created
	return out, nil
}

func firstOr(list []string, fallback string) string {
	if len(list) > 0 {
		return list[0]
	}
	return fallback
}

// identityCandidates builds the ordered probe set: primary identity first,
// then each normalized synonym.
func identityCandidates(primary string, synonyms []string) []string {
	candidates := make([]string, 0, 1+len(synonyms))
	seen := make(map[string]struct{})
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		candidates = append(candidates, s)
	}
	add(primary)
	for _, syn := range synonyms {
		add(syn)
	}
	return candidates
}

func (rs *resolutionService) ResolveTag(ctx context.Context, tx *gorm.DB, workspaceID string, input TagCreateInput, preferGlobal bool) (Resolution[types.Tag, types.WorkspaceTag], error) {
	label := deriveLabel(input)
	if label == "" {
		return Resolution[types.Tag, types.WorkspaceTag]{}, apperrors.Validationf("tag label is required")
	}
	candidates := identityCandidates(label, normalization.NormalizeSynonyms(input.Synonyms))
	return resolveScoped(candidates, preferGlobal, scopeStrategy[types.Tag, types.WorkspaceTag]{
		kind: "tag",
		probeGlobal: func(candidate string) (*types.Tag, error) {
			return rs.tags.FindByLabelOrSynonym(ctx, tx, candidate)
		},
		findWorkspace: func() (*types.WorkspaceTag, error) {
			return rs.tags.FindWorkspaceTagByLabelOrSynonym(ctx, tx, workspaceID, label)
		},
		createWorkspace: func() (*types.WorkspaceTag, error) {
			return rs.tags.CreateWorkspaceTag(ctx, tx, workspaceID, input)
		},
	})
}

func (rs *resolutionService) ResolveAttributeType(ctx context.Context, tx *gorm.DB, workspaceID string, input AttributeTypeInput, preferGlobal bool) (Resolution[types.AttributeType, types.WorkspaceAttributeType], error) {
	if err := validateAttributeTypeInput(input); err != nil {
		return Resolution[types.AttributeType, types.WorkspaceAttributeType]{}, err
	}
	candidates := identityCandidates(input.Name, input.Synonyms)
	// PHYSICAL quantities are centrally curated: a workspace never drafts
	// its own definition of "torque".
	refuseDraft := preferGlobal && input.Kind == types.KindPhysical
	return resolveScoped(candidates, preferGlobal, scopeStrategy[types.AttributeType, types.WorkspaceAttributeType]{
		kind:        "PHYSICAL attribute type",
		refuseDraft: refuseDraft,
		probeGlobal: func(candidate string) (*types.AttributeType, error) {
			return rs.attrs.FindByNameOrSynonym(ctx, tx, candidate)
		},
		findWorkspace: func() (*types.WorkspaceAttributeType, error) {
			return rs.attrs.FindWorkspaceByNameOrSynonym(ctx, tx, workspaceID, input.Name)
		},
		createWorkspace: func() (*types.WorkspaceAttributeType, error) {
			return rs.attrs.CreateWorkspace(ctx, tx, workspaceID, input)
		},
	})
}

func (rs *resolutionService) ResolveAttributeValue(ctx context.Context, tx *gorm.DB, workspaceID string, input AttributeValueInput, preferGlobal bool) (Resolution[types.AttributeValue, types.WorkspaceAttributeValue], error) {
	var out Resolution[types.AttributeValue, types.WorkspaceAttributeValue]
	if input.AttributeTypeID == "" {
		return out, apperrors.Validationf("attribute type id is required")
	}
	// The tiers key values on different type rows: a global value hangs off
	// the global type, a workspace draft off the workspace type. Map the
	// given id to its counterpart in each tier before probing.
	globalTypeID, wsType, err := rs.attributeTypeTiers(ctx, tx, workspaceID, input.AttributeTypeID)
	if err != nil {
		return out, err
	}
	candidates := identityCandidates(input.Value, input.Synonyms)
	return resolveScoped(candidates, preferGlobal, scopeStrategy[types.AttributeValue, types.WorkspaceAttributeValue]{
		kind: "attribute value",
		probeGlobal: func(candidate string) (*types.AttributeValue, error) {
			if globalTypeID == "" {
				return nil, nil
			}
			return rs.values.FindByAttributeAndValueOrSynonym(ctx, tx, globalTypeID, candidate)
		},
		findWorkspace: func() (*types.WorkspaceAttributeValue, error) {
			if wsType == nil {
				return nil, nil
			}
			return rs.values.FindWorkspaceByAttributeAndValueOrSynonym(ctx, tx, workspaceID, wsType.ID, input.Value)
		},
		createWorkspace: func() (*types.WorkspaceAttributeValue, error) {
			if wsType == nil {
				return nil, apperrors.Orderingf("attribute type %s has no counterpart in workspace %s; resolve the attribute type there first", input.AttributeTypeID, workspaceID)
			}
			scoped := input
			scoped.AttributeTypeID = wsType.ID
			return rs.values.CreateWorkspace(ctx, tx, workspaceID, scoped)
		},
	})
}

// attributeTypeTiers maps an attribute type id from either tier onto the
// global type id and the workspace draft it corresponds to. Either side
// may be absent: a global type nobody has drafted against in this
// workspace, or an unpromoted draft with no global link yet.
func (rs *resolutionService) attributeTypeTiers(ctx context.Context, tx *gorm.DB, workspaceID, id string) (string, *types.WorkspaceAttributeType, error) {
	global, err := rs.attrs.GetByID(ctx, tx, id)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return "", nil, err
	}
	if global != nil {
		wsType, err := rs.attrs.FindWorkspaceByGlobalID(ctx, tx, workspaceID, global.ID)
		if err != nil {
			return "", nil, err
		}
		return global.ID, wsType, nil
	}
	wsType, err := rs.attrs.GetWorkspaceByID(ctx, tx, id)
	if err != nil {
		return "", nil, err
	}
	if wsType.WorkspaceID != workspaceID {
		return "", nil, apperrors.Validationf("attribute type %s belongs to a different workspace", id)
	}
	return wsType.GlobalAttributeTypeID, wsType, nil
}

// ResolveUnit never drafts: the unit vocabulary has exactly one tier.
func (rs *resolutionService) ResolveUnit(ctx context.Context, tx *gorm.DB, code string) (*types.UnitDefinition, error) {
	unit, err := rs.units.GetByCode(ctx, tx, code)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Orderingf("unit %q is centrally curated and has no global definition; seed the unit registry first", code)
		}
		return nil, err
	}
	return unit, nil
}
