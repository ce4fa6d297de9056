package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vocabhub/vocab-backend/internal/ids"
	"github.com/vocabhub/vocab-backend/internal/normalization"
	"github.com/vocabhub/vocab-backend/internal/pkg/ctxutil"
	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/pkg/logger"
	"github.com/vocabhub/vocab-backend/internal/repos"
	"github.com/vocabhub/vocab-backend/internal/types"
)

// maxMergeChainDepth bounds the pointer walk through mergedInto links so
// corrupted storage cannot hang a lookup.
const maxMergeChainDepth = 64

// TagCreateInput is the write model for CreateTag. Label may be empty
// when DisplayName is given; the normalized label is derived either way.
type TagCreateInput struct {
	Label       string
	DisplayName string
	Pos         types.PartOfSpeech
	Synonyms    []string
	Notes       string
	Status      types.Status
	Source      string
}

// TagUpdateInput carries partial updates; nil fields are untouched.
type TagUpdateInput struct {
	Label       *string
	DisplayName *string
	Pos         *types.PartOfSpeech
	Synonyms    *[]string
	Status      *types.Status
	AuditStatus *types.AuditStatus
	Notes       *string
}

// TagRegistryService manages the global tag vocabulary and per-workspace
// draft tags. All creation paths are idempotent: a second create with a
// spelling that normalizes to an existing label returns the existing tag.
type TagRegistryService interface {
	CreateTag(ctx context.Context, tx *gorm.DB, input TagCreateInput) (*types.Tag, error)
	UpdateTag(ctx context.Context, tx *gorm.DB, id string, updates TagUpdateInput) (*types.Tag, error)
	GetTag(ctx context.Context, tx *gorm.DB, id string) (*types.Tag, error)
	// FindByLabelOrSynonym matches label case-insensitively and resolves
	// through the merge chain to the absorbing tag. The walk is bounded
	// and cycle-guarded; a corrupted cycle returns the last tag reached.
	FindByLabelOrSynonym(ctx context.Context, tx *gorm.DB, label string) (*types.Tag, error)
	List(ctx context.Context, tx *gorm.DB, filter repos.TagFilter, page types.PageArgs) ([]*types.Tag, int64, error)

	CreateWorkspaceTag(ctx context.Context, tx *gorm.DB, workspaceID string, input TagCreateInput) (*types.WorkspaceTag, error)
	UpdateWorkspaceTag(ctx context.Context, tx *gorm.DB, id string, updates TagUpdateInput) (*types.WorkspaceTag, error)
	FindWorkspaceTagByLabelOrSynonym(ctx context.Context, tx *gorm.DB, workspaceID, label string) (*types.WorkspaceTag, error)
	ListWorkspaceTags(ctx context.Context, tx *gorm.DB, workspaceID string, filter repos.WorkspaceTagFilter, page types.PageArgs) ([]*types.WorkspaceTag, int64, error)
}

type tagRegistryService struct {
	db        *gorm.DB
	log       *logger.Logger
	idGen     ids.Generator
	oracle    AuthOracle
	lint      LintService
	tagRepo   repos.TagRepo
	wsTagRepo repos.WorkspaceTagRepo
}

func NewTagRegistryService(
	db *gorm.DB,
	baseLog *logger.Logger,
	idGen ids.Generator,
	oracle AuthOracle,
	lint LintService,
	tagRepo repos.TagRepo,
	wsTagRepo repos.WorkspaceTagRepo,
) TagRegistryService {
	serviceLog := baseLog.With("service", "TagRegistryService")
	return &tagRegistryService{
		db:        db,
		log:       serviceLog,
		idGen:     idGen,
		oracle:    oracle,
		lint:      lint,
		tagRepo:   tagRepo,
		wsTagRepo: wsTagRepo,
	}
}

// deriveLabel picks the normalized label for a create input.
func deriveLabel(input TagCreateInput) string {
	if label := normalization.NormalizeLabel(input.Label); label != "" {
		return label
	}
	return normalization.NormalizeLabel(input.DisplayName)
}

func appendLintNotes(notes string, warnings []string) string {
	parts := make([]string, 0, len(warnings)+1)
	if strings.TrimSpace(notes) != "" {
		parts = append(parts, strings.TrimSpace(notes))
	}
	for _, w := range warnings {
		parts = append(parts, "lint: "+w)
	}
	return strings.Join(parts, "\n")
}

func (ts *tagRegistryService) CreateTag(ctx context.Context, tx *gorm.DB, input TagCreateInput) (*types.Tag, error) {
	label := deriveLabel(input)
	if label == "" {
		return nil, apperrors.Validationf("tag label is required")
	}
	synonyms := normalization.NormalizeSynonyms(input.Synonyms)

	existing, err := ts.FindByLabelOrSynonym(ctx, tx, label)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	lintResult, err := ts.lint.LintTagCandidate(ctx, tx, label, synonyms)
	if err != nil {
		return nil, err
	}
	if lintResult.HasErrors() {
		return nil, apperrors.Lintf("tag %q blocked: %s", label, strings.Join(lintResult.Errors, "; "))
	}

	status := input.Status
	if status == "" {
		status = types.StatusProposed
	}
	auditStatus := types.AuditPendingReview
	if lintResult.HasWarnings() {
		auditStatus = types.AuditFlagged
	}
	displayName := normalization.NormalizeDisplayName(input.DisplayName)
	if displayName == "" {
		displayName = normalization.ToDisplayName(label)
	}
	principal, _ := ctxutil.GetPrincipal(ctx)

	tag := &types.Tag{
		ID:          ts.idGen.NewID("tag", ""),
		Label:       label,
		DisplayName: displayName,
		Pos:         input.Pos,
		Synonyms:    datatypes.NewJSONSlice(synonyms),
		Status:      status,
		AuditStatus: auditStatus,
		Notes:       appendLintNotes(input.Notes, lintResult.Warnings),
		CreatedBy:   principal.ID,
		Source:      input.Source,
	}
	if err := ts.tagRepo.Insert(ctx, tx, tag); err != nil {
		// Lost a create race: the unique index on label means the winner's
		// row is now the canonical one.
		if again, lookupErr := ts.tagRepo.FindOneByLabelOrSynonym(ctx, tx, label); lookupErr == nil && again != nil {
			return again, nil
		}
		return nil, fmt.Errorf("insert tag %q: %w", label, err)
	}
	ts.log.Info("tag created", "label", label, "audit_status", auditStatus)
	return tag, nil
}

func (ts *tagRegistryService) UpdateTag(ctx context.Context, tx *gorm.DB, id string, updates TagUpdateInput) (*types.Tag, error) {
	tag, err := ts.tagRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load tag %s: %w", id, err)
	}
	if tag == nil {
		return nil, apperrors.NotFoundf("tag %s", id)
	}

	relint := false
	if updates.Label != nil {
		newLabel := normalization.NormalizeLabel(*updates.Label)
		if newLabel == "" {
			return nil, apperrors.Validationf("tag label cannot be empty")
		}
		if newLabel != tag.Label {
			other, err := ts.tagRepo.FindOneByLabelOrSynonym(ctx, tx, newLabel)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != tag.ID {
				return nil, apperrors.Conflictf("label %q already belongs to tag %s", newLabel, other.ID)
			}
			tag.Label = newLabel
			relint = true
		}
	}
	if updates.Synonyms != nil {
		tag.Synonyms = datatypes.NewJSONSlice(normalization.NormalizeSynonyms(*updates.Synonyms))
		relint = true
	}
	if updates.DisplayName != nil {
		tag.DisplayName = normalization.NormalizeDisplayName(*updates.DisplayName)
	}
	if updates.Pos != nil {
		tag.Pos = *updates.Pos
	}
	if updates.Status != nil {
		tag.Status = *updates.Status
	}
	if updates.AuditStatus != nil {
		tag.AuditStatus = *updates.AuditStatus
	}
	if updates.Notes != nil {
		tag.Notes = *updates.Notes
	}

	if relint {
		lintResult, err := ts.lint.LintTagCandidate(ctx, tx, tag.Label, tag.Synonyms)
		if err != nil {
			return nil, err
		}
		if lintResult.HasErrors() {
			return nil, apperrors.Lintf("tag %q blocked: %s", tag.Label, strings.Join(lintResult.Errors, "; "))
		}
		if lintResult.HasWarnings() {
			tag.AuditStatus = types.AuditFlagged
			tag.Notes = appendLintNotes(tag.Notes, lintResult.Warnings)
		}
	}

	principal, _ := ctxutil.GetPrincipal(ctx)
	tag.UpdatedBy = principal.ID
	if err := ts.tagRepo.Save(ctx, tx, tag); err != nil {
		return nil, fmt.Errorf("save tag %s: %w", id, err)
	}
	return tag, nil
}

func (ts *tagRegistryService) GetTag(ctx context.Context, tx *gorm.DB, id string) (*types.Tag, error) {
	tag, err := ts.tagRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load tag %s: %w", id, err)
	}
	if tag == nil {
		return nil, apperrors.NotFoundf("tag %s", id)
	}
	return tag, nil
}

func (ts *tagRegistryService) FindByLabelOrSynonym(ctx context.Context, tx *gorm.DB, label string) (*types.Tag, error) {
	normalized := normalization.NormalizeLabel(label)
	if normalized == "" {
		return nil, nil
	}
	tag, err := ts.tagRepo.FindOneByLabelOrSynonym(ctx, tx, normalized)
	if err != nil || tag == nil {
		return tag, err
	}
	return ts.resolveMergeChain(ctx, tx, tag)
}

// resolveMergeChain follows mergedInto pointers to the absorbing tag. The
// visited set turns a corrupted cycle into termination at the last
// unvisited node instead of an infinite loop.
func (ts *tagRegistryService) resolveMergeChain(ctx context.Context, tx *gorm.DB, tag *types.Tag) (*types.Tag, error) {
	current := tag
	visited := map[string]struct{}{current.ID: {}}
	for depth := 0; depth < maxMergeChainDepth && current.MergedIntoID != ""; depth++ {
		next, err := ts.tagRepo.GetByID(ctx, tx, current.MergedIntoID)
		if err != nil {
			return nil, fmt.Errorf("resolve merge chain from %s: %w", tag.ID, err)
		}
		if next == nil {
			ts.log.Warn("merge chain points at missing tag", "tag_id", current.ID, "merged_into_id", current.MergedIntoID)
			return current, nil
		}
		if _, seen := visited[next.ID]; seen {
			ts.log.Warn("merge chain cycle detected", "tag_id", tag.ID, "at", next.ID)
			return current, nil
		}
		visited[next.ID] = struct{}{}
		current = next
	}
	return current, nil
}

func (ts *tagRegistryService) List(ctx context.Context, tx *gorm.DB, filter repos.TagFilter, page types.PageArgs) ([]*types.Tag, int64, error) {
	return ts.tagRepo.List(ctx, tx, filter, page)
}

func (ts *tagRegistryService) CreateWorkspaceTag(ctx context.Context, tx *gorm.DB, workspaceID string, input TagCreateInput) (*types.WorkspaceTag, error) {
	if workspaceID == "" {
		return nil, apperrors.Validationf("workspace id is required")
	}
	principal, err := requireWorkspaceAccess(ctx, ts.oracle, PermWorkspaceWrite, workspaceID)
	if err != nil {
		return nil, err
	}
	label := deriveLabel(input)
	if label == "" {
		return nil, apperrors.Validationf("tag label is required")
	}
	synonyms := normalization.NormalizeSynonyms(input.Synonyms)

	existing, err := ts.wsTagRepo.FindOneByLabelOrSynonym(ctx, tx, workspaceID, label)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	lintResult, err := ts.lint.LintTagCandidate(ctx, tx, label, synonyms)
	if err != nil {
		return nil, err
	}
	if lintResult.HasErrors() {
		return nil, apperrors.Lintf("workspace tag %q blocked: %s", label, strings.Join(lintResult.Errors, "; "))
	}

	status := input.Status
	if status == "" {
		status = types.StatusProposed
	}
	auditStatus := types.AuditPendingReview
	if lintResult.HasWarnings() {
		auditStatus = types.AuditFlagged
	}
	displayName := normalization.NormalizeDisplayName(input.DisplayName)
	if displayName == "" {
		displayName = normalization.ToDisplayName(label)
	}

	tag := &types.WorkspaceTag{
		ID:          ts.idGen.NewID("wstag", workspaceID),
		WorkspaceID: workspaceID,
		Label:       label,
		DisplayName: displayName,
		Pos:         input.Pos,
		Synonyms:    datatypes.NewJSONSlice(synonyms),
		Status:      status,
		AuditStatus: auditStatus,
		Notes:       appendLintNotes(input.Notes, lintResult.Warnings),
		CreatedBy:   principal.ID,
		Source:      input.Source,
	}
	if err := ts.wsTagRepo.Insert(ctx, tx, tag); err != nil {
		if again, lookupErr := ts.wsTagRepo.FindOneByLabelOrSynonym(ctx, tx, workspaceID, label); lookupErr == nil && again != nil {
			return again, nil
		}
		return nil, fmt.Errorf("insert workspace tag %q: %w", label, err)
	}
	ts.log.Info("workspace tag created", "workspace_id", workspaceID, "label", label)
	return tag, nil
}

func (ts *tagRegistryService) UpdateWorkspaceTag(ctx context.Context, tx *gorm.DB, id string, updates TagUpdateInput) (*types.WorkspaceTag, error) {
	tag, err := ts.wsTagRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load workspace tag %s: %w", id, err)
	}
	if tag == nil {
		return nil, apperrors.NotFoundf("workspace tag %s", id)
	}
	principal, err := requireWorkspaceAccess(ctx, ts.oracle, PermWorkspaceWrite, tag.WorkspaceID)
	if err != nil {
		return nil, err
	}

	relint := false
	if updates.Label != nil {
		newLabel := normalization.NormalizeLabel(*updates.Label)
		if newLabel == "" {
			return nil, apperrors.Validationf("tag label cannot be empty")
		}
		if newLabel != tag.Label {
			other, err := ts.wsTagRepo.FindOneByLabelOrSynonym(ctx, tx, tag.WorkspaceID, newLabel)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != tag.ID {
				return nil, apperrors.Conflictf("label %q already belongs to workspace tag %s", newLabel, other.ID)
			}
			tag.Label = newLabel
			relint = true
		}
	}
	if updates.Synonyms != nil {
		tag.Synonyms = datatypes.NewJSONSlice(normalization.NormalizeSynonyms(*updates.Synonyms))
		relint = true
	}
	if updates.DisplayName != nil {
		tag.DisplayName = normalization.NormalizeDisplayName(*updates.DisplayName)
	}
	if updates.Pos != nil {
		tag.Pos = *updates.Pos
	}
	if updates.Status != nil {
		tag.Status = *updates.Status
	}
	if updates.AuditStatus != nil {
		tag.AuditStatus = *updates.AuditStatus
	}
	if updates.Notes != nil {
		tag.Notes = *updates.Notes
	}

	if relint {
		lintResult, err := ts.lint.LintTagCandidate(ctx, tx, tag.Label, tag.Synonyms)
		if err != nil {
			return nil, err
		}
		if lintResult.HasErrors() {
			return nil, apperrors.Lintf("workspace tag %q blocked: %s", tag.Label, strings.Join(lintResult.Errors, "; "))
		}
		if lintResult.HasWarnings() {
			tag.AuditStatus = types.AuditFlagged
			tag.Notes = appendLintNotes(tag.Notes, lintResult.Warnings)
		}
	}

	tag.UpdatedBy = principal.ID
	if err := ts.wsTagRepo.Save(ctx, tx, tag); err != nil {
		return nil, fmt.Errorf("save workspace tag %s: %w", id, err)
	}
	return tag, nil
}

func (ts *tagRegistryService) FindWorkspaceTagByLabelOrSynonym(ctx context.Context, tx *gorm.DB, workspaceID, label string) (*types.WorkspaceTag, error) {
	if _, err := requireWorkspaceAccess(ctx, ts.oracle, PermWorkspaceRead, workspaceID); err != nil {
		return nil, err
	}
	normalized := normalization.NormalizeLabel(label)
	if normalized == "" {
		return nil, nil
	}
	return ts.wsTagRepo.FindOneByLabelOrSynonym(ctx, tx, workspaceID, normalized)
}

func (ts *tagRegistryService) ListWorkspaceTags(ctx context.Context, tx *gorm.DB, workspaceID string, filter repos.WorkspaceTagFilter, page types.PageArgs) ([]*types.WorkspaceTag, int64, error) {
	if _, err := requireWorkspaceAccess(ctx, ts.oracle, PermWorkspaceRead, workspaceID); err != nil {
		return nil, 0, err
	}
	return ts.wsTagRepo.List(ctx, tx, workspaceID, filter, page)
}
