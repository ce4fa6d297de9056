package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vocabhub/vocab-backend/internal/normalization"
	"github.com/vocabhub/vocab-backend/internal/pkg/ctxutil"
	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/pkg/logger"
	"github.com/vocabhub/vocab-backend/internal/repos"
	"github.com/vocabhub/vocab-backend/internal/types"
)

// MergeService collapses duplicate global tags. The absorbed tag is soft
// retired (DEPRECATED + mergedInto pointer), its label and synonyms fold
// into the target's synonym set, and every reference — tag relations and
// parse rule contexts — is rewired to the target. Calling the same merge
// twice is a no-op returning the same canonical target.
type MergeService interface {
	MergeTag(ctx context.Context, tx *gorm.DB, sourceTagID, targetTagID, reason string) (*types.Tag, error)
}

type mergeService struct {
	db            *gorm.DB
	log           *logger.Logger
	tagRepo       repos.TagRepo
	relationRepo  repos.TagRelationRepo
	parseRuleRepo repos.ParseRuleRepo
}

func NewMergeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tagRepo repos.TagRepo,
	relationRepo repos.TagRelationRepo,
	parseRuleRepo repos.ParseRuleRepo,
) MergeService {
	serviceLog := baseLog.With("service", "MergeService")
	return &mergeService{
		db:            db,
		log:           serviceLog,
		tagRepo:       tagRepo,
		relationRepo:  relationRepo,
		parseRuleRepo: parseRuleRepo,
	}
}

func (ms *mergeService) MergeTag(ctx context.Context, tx *gorm.DB, sourceTagID, targetTagID, reason string) (*types.Tag, error) {
	ctx = ctxutil.Default(ctx)
	if sourceTagID == "" || targetTagID == "" {
		return nil, apperrors.Validationf("source and target tag ids are required")
	}
	if sourceTagID == targetTagID {
		return nil, apperrors.Validationf("cannot merge tag %s into itself", sourceTagID)
	}

	var result *types.Tag
	run := func(tx *gorm.DB) error {
		source, err := ms.tagRepo.GetByID(ctx, tx, sourceTagID)
		if err != nil {
			return fmt.Errorf("load source tag %s: %w", sourceTagID, err)
		}
		if source == nil {
			return apperrors.NotFoundf("tag %s", sourceTagID)
		}
		target, err := ms.tagRepo.GetByID(ctx, tx, targetTagID)
		if err != nil {
			return fmt.Errorf("load target tag %s: %w", targetTagID, err)
		}
		if target == nil {
			return apperrors.NotFoundf("tag %s", targetTagID)
		}

		canonicalTarget, err := ms.resolveChain(ctx, tx, target)
		if err != nil {
			return err
		}
		if canonicalTarget.ID == source.ID {
			return apperrors.Validationf("merging %s into %s would form a cycle", sourceTagID, targetTagID)
		}

		if source.MergedIntoID != "" {
			resolved, err := ms.resolveChain(ctx, tx, source)
			if err != nil {
				return err
			}
			if resolved.ID == canonicalTarget.ID {
				// Idempotent repeat of an already applied merge.
				result = canonicalTarget
				return nil
			}
			return apperrors.Conflictf("tag %s is already merged into %s and cannot be re-targeted", sourceTagID, resolved.ID)
		}

		principal, _ := ctxutil.GetPrincipal(ctx)

		// Fold the source's identity into the target's synonym set.
		synonyms := mergedSynonyms(canonicalTarget, source)
		canonicalTarget.Synonyms = datatypes.NewJSONSlice(synonyms)
		canonicalTarget.UpdatedBy = principal.ID
		if err := ms.tagRepo.Save(ctx, tx, canonicalTarget); err != nil {
			return fmt.Errorf("save target tag %s: %w", canonicalTarget.ID, err)
		}

		notes := source.Notes
		if strings.TrimSpace(reason) != "" {
			if notes != "" {
				notes += "\n"
			}
			notes += "merged: " + strings.TrimSpace(reason)
		}
		fields := map[string]interface{}{
			"status":         types.StatusDeprecated,
			"merged_into_id": canonicalTarget.ID,
			"notes":          notes,
			"updated_by":     principal.ID,
		}
		if err := ms.tagRepo.UpdateFields(ctx, tx, source.ID, fields); err != nil {
			return fmt.Errorf("retire source tag %s: %w", source.ID, err)
		}

		if err := ms.rewireRelations(ctx, tx, source.ID, canonicalTarget.ID); err != nil {
			return err
		}
		if err := ms.rewireParseRules(ctx, tx, source.ID, canonicalTarget.ID); err != nil {
			return err
		}

		refreshed, err := ms.tagRepo.GetByID(ctx, tx, canonicalTarget.ID)
		if err != nil {
			return fmt.Errorf("reload target tag %s: %w", canonicalTarget.ID, err)
		}
		ms.log.Info("tag merged", "source_tag_id", source.ID, "target_tag_id", canonicalTarget.ID)
		result = refreshed
		return nil
	}

	var err error
	if tx != nil {
		err = run(tx)
	} else {
		err = ms.db.Transaction(run)
	}
	return result, err
}

func (ms *mergeService) resolveChain(ctx context.Context, tx *gorm.DB, tag *types.Tag) (*types.Tag, error) {
	current := tag
	visited := map[string]struct{}{current.ID: {}}
	for depth := 0; depth < maxMergeChainDepth && current.MergedIntoID != ""; depth++ {
		next, err := ms.tagRepo.GetByID(ctx, tx, current.MergedIntoID)
		if err != nil {
			return nil, fmt.Errorf("resolve merge chain from %s: %w", tag.ID, err)
		}
		if next == nil {
			return current, nil
		}
		if _, seen := visited[next.ID]; seen {
			ms.log.Warn("merge chain cycle detected", "tag_id", tag.ID, "at", next.ID)
			return current, nil
		}
		visited[next.ID] = struct{}{}
		current = next
	}
	return current, nil
}

// mergedSynonyms is target.synonyms ∪ {source.label} ∪ source.synonyms,
// normalized, minus the target's own label, sorted.
func mergedSynonyms(target, source *types.Tag) []string {
	set := make(map[string]struct{})
	add := func(s string) {
		n := normalization.NormalizeLabel(s)
		if n == "" || n == target.Label {
			return
		}
		set[n] = struct{}{}
	}
	for _, s := range target.Synonyms {
		add(s)
	}
	add(source.Label)
	for _, s := range source.Synonyms {
		add(s)
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// rewireRelations repoints relations touching the source tag at the
// target, drops self-loops, and deduplicates relations that now collide
// on (from, to, type).
func (ms *mergeService) rewireRelations(ctx context.Context, tx *gorm.DB, sourceID, targetID string) error {
	relations, err := ms.relationRepo.ListTouchingTag(ctx, tx, sourceID)
	if err != nil {
		return fmt.Errorf("list relations touching %s: %w", sourceID, err)
	}
	var dropIDs []string
	for _, rel := range relations {
		from, to := rel.FromTagID, rel.ToTagID
		if from == sourceID {
			from = targetID
		}
		if to == sourceID {
			to = targetID
		}
		if from == to {
			dropIDs = append(dropIDs, rel.ID)
			continue
		}
		existing, err := ms.relationRepo.FindOneByKey(ctx, tx, repos.RelationKey{FromTagID: from, ToTagID: to, RelationType: rel.RelationType})
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != rel.ID {
			dropIDs = append(dropIDs, rel.ID)
			continue
		}
		rel.FromTagID = from
		rel.ToTagID = to
		if err := ms.relationRepo.Save(ctx, tx, rel); err != nil {
			return fmt.Errorf("repoint relation %s: %w", rel.ID, err)
		}
	}
	if err := ms.relationRepo.DeleteByIDs(ctx, tx, dropIDs); err != nil {
		return fmt.Errorf("drop relations: %w", err)
	}

	// Duplicate sweep: storage-level grouping catches collisions created
	// outside this call too.
	dupKeys, err := ms.relationRepo.FindDuplicateKeys(ctx, tx)
	if err != nil {
		return fmt.Errorf("find duplicate relations: %w", err)
	}
	for _, key := range dupKeys {
		rows, err := ms.relationRepo.ListByKey(ctx, tx, key)
		if err != nil {
			return err
		}
		if len(rows) <= 1 {
			continue
		}
		extras := make([]string, 0, len(rows)-1)
		for _, extra := range rows[1:] {
			extras = append(extras, extra.ID)
		}
		if err := ms.relationRepo.DeleteByIDs(ctx, tx, extras); err != nil {
			return fmt.Errorf("dedupe relations for %v: %w", key, err)
		}
	}
	return nil
}

// rewireParseRules swaps the source tag for the target in every parse
// rule context set, deduplicating the set.
func (ms *mergeService) rewireParseRules(ctx context.Context, tx *gorm.DB, sourceID, targetID string) error {
	rules, err := ms.parseRuleRepo.ListReferencingContextTag(ctx, tx, sourceID)
	if err != nil {
		return fmt.Errorf("list parse rules referencing %s: %w", sourceID, err)
	}
	for _, rule := range rules {
		seen := make(map[string]struct{})
		rewritten := make([]string, 0, len(rule.ContextTagIDs))
		for _, id := range rule.ContextTagIDs {
			if id == sourceID {
				id = targetID
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			rewritten = append(rewritten, id)
		}
		rule.ContextTagIDs = datatypes.NewJSONSlice(rewritten)
		if err := ms.parseRuleRepo.Save(ctx, tx, rule); err != nil {
			return fmt.Errorf("rewrite parse rule %s: %w", rule.ID, err)
		}
	}
	return nil
}
