package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/vocabhub/vocab-backend/internal/normalization"
	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/pkg/logger"
	"github.com/vocabhub/vocab-backend/internal/repos"
)

func lintBlendedErr(name, why string) error {
	return apperrors.Lintf("PHYSICAL attribute name %q must denote one atomic measurable quantity: %s", name, why)
}

// LintResult carries the outcome of a lint pass. Errors block the write;
// warnings are persisted as notes and flip auditStatus to FLAGGED.
type LintResult struct {
	Warnings []string
	Errors   []string
}

func (r LintResult) HasErrors() bool   { return len(r.Errors) > 0 }
func (r LintResult) HasWarnings() bool { return len(r.Warnings) > 0 }

// LintService prevents the three vocabularies from semantically
// overlapping: unit codes must not become tags, attribute type names must
// not be duplicated as tags, and PHYSICAL attribute type names must not
// blend a qualifier into a measurable quantity.
type LintService interface {
	LintTagCandidate(ctx context.Context, tx *gorm.DB, label string, synonyms []string) (LintResult, error)
	// ValidatePhysicalAttributeName rejects blended/contextual names for
	// PHYSICAL attribute types drafted in a workspace.
	ValidatePhysicalAttributeName(name string, synonyms []string) error
}

type lintService struct {
	log      *logger.Logger
	cfg      LintConfig
	unitRepo repos.UnitRepo
	attrRepo repos.AttributeTypeRepo
}

func NewLintService(
	baseLog *logger.Logger,
	cfg LintConfig,
	unitRepo repos.UnitRepo,
	attrRepo repos.AttributeTypeRepo,
) LintService {
	serviceLog := baseLog.With("service", "LintService")
	return &lintService{log: serviceLog, cfg: cfg, unitRepo: unitRepo, attrRepo: attrRepo}
}

func (ls *lintService) LintTagCandidate(ctx context.Context, tx *gorm.DB, label string, synonyms []string) (LintResult, error) {
	var result LintResult
	normalized := normalization.NormalizeLabel(label)
	if normalized == "" {
		return result, nil
	}

	if advice, ok := ls.cfg.DiscouragedLabels[normalized]; ok {
		result.Warnings = append(result.Warnings, fmt.Sprintf("label %q is discouraged: %s", normalized, advice))
	}

	unit, err := ls.unitRepo.GetByCode(ctx, tx, strings.ToUpper(normalized))
	if err != nil {
		return result, fmt.Errorf("lint unit probe: %w", err)
	}
	if unit != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%q is a unit code (%s); unit codes must not become tags", normalized, unit.Code))
	}

	for _, candidate := range lintCandidates(normalized, synonyms) {
		at, err := ls.attrRepo.FindNonDeprecatedByNameOrSynonym(ctx, tx, candidate)
		if err != nil {
			return result, fmt.Errorf("lint attribute probe: %w", err)
		}
		if at != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%q already exists as attribute type %q; record it as a measurement, not a tag", candidate, at.Name))
		}
	}

	if result.HasErrors() {
		ls.log.Debug("lint blocked tag candidate", "label", normalized, "errors", result.Errors)
	}
	return result, nil
}

// lintCandidates expands the label and each synonym with the underscore /
// space substitution so "ground_clearance" also probes "ground clearance".
func lintCandidates(label string, synonyms []string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	expand := func(s string) {
		add(s)
		if strings.Contains(s, "_") {
			add(strings.ReplaceAll(s, "_", " "))
		}
		if strings.Contains(s, " ") {
			add(strings.ReplaceAll(s, " ", "_"))
		}
	}
	expand(label)
	for _, syn := range synonyms {
		expand(syn)
	}
	return out
}

func (ls *lintService) ValidatePhysicalAttributeName(name string, synonyms []string) error {
	if err := ls.checkAtomicName(name); err != nil {
		return err
	}
	for _, syn := range synonyms {
		if err := ls.checkAtomicName(syn); err != nil {
			return err
		}
	}
	return nil
}

func (ls *lintService) checkAtomicName(name string) error {
	trimmed := strings.TrimSpace(name)
	if strings.Contains(trimmed, "_") {
		return lintBlendedErr(trimmed, "underscores blend a qualifier into the quantity name")
	}
	for _, token := range strings.Fields(strings.ToLower(trimmed)) {
		if ls.cfg.isBlendedToken(token) {
			return lintBlendedErr(trimmed, fmt.Sprintf("token %q is contextual; put it on a tag instead", token))
		}
	}
	return nil
}
