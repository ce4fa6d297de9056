package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vocabhub/vocab-backend/internal/ids"
	"github.com/vocabhub/vocab-backend/internal/pkg/ctxutil"
	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/pkg/logger"
	"github.com/vocabhub/vocab-backend/internal/repos"
	"github.com/vocabhub/vocab-backend/internal/types"
)

// AttributeTypeInput is the write model for attribute type creation in
// either scope.
type AttributeTypeInput struct {
	Name            string
	Kind            types.AttributeKind
	ValueType       types.ValueType
	Dimension       string
	CanonicalUnit   string
	AllowedUnits    []string
	Synonyms        []string
	Status          types.Status
	AppliesTo       types.AppliesTo
	UsageHints      []string
	ValidationRules *types.ValidationRules
	Source          string
}

// AttributeTypeUpdateInput carries partial updates; nil fields are untouched.
type AttributeTypeUpdateInput struct {
	Name            *string
	Kind            *types.AttributeKind
	ValueType       *types.ValueType
	Dimension       *string
	CanonicalUnit   *string
	AllowedUnits    *[]string
	Synonyms        *[]string
	Status          *types.Status
	AuditStatus     *types.AuditStatus
	AppliesTo       *types.AppliesTo
	UsageHints      *[]string
	ValidationRules *types.ValidationRules
}

// AttributeTypeRegistryService manages the measurable/brand attribute
// vocabulary in both tiers. Creation is idempotent on name/synonym
// identity within a scope.
type AttributeTypeRegistryService interface {
	Create(ctx context.Context, tx *gorm.DB, input AttributeTypeInput) (*types.AttributeType, error)
	Update(ctx context.Context, tx *gorm.DB, id string, updates AttributeTypeUpdateInput) (*types.AttributeType, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.AttributeType, error)
	FindByNameOrSynonym(ctx context.Context, tx *gorm.DB, name string) (*types.AttributeType, error)
	List(ctx context.Context, tx *gorm.DB, filter repos.AttributeTypeFilter, page types.PageArgs) ([]*types.AttributeType, int64, error)

	CreateWorkspace(ctx context.Context, tx *gorm.DB, workspaceID string, input AttributeTypeInput) (*types.WorkspaceAttributeType, error)
	UpdateWorkspace(ctx context.Context, tx *gorm.DB, id string, updates AttributeTypeUpdateInput) (*types.WorkspaceAttributeType, error)
	GetWorkspaceByID(ctx context.Context, tx *gorm.DB, id string) (*types.WorkspaceAttributeType, error)
	FindWorkspaceByNameOrSynonym(ctx context.Context, tx *gorm.DB, workspaceID, name string) (*types.WorkspaceAttributeType, error)
	FindWorkspaceByGlobalID(ctx context.Context, tx *gorm.DB, workspaceID, globalID string) (*types.WorkspaceAttributeType, error)
	ListWorkspace(ctx context.Context, tx *gorm.DB, workspaceID string, filter repos.AttributeTypeFilter, page types.PageArgs) ([]*types.WorkspaceAttributeType, int64, error)
}

type attributeTypeRegistryService struct {
	db         *gorm.DB
	log        *logger.Logger
	idGen      ids.Generator
	oracle     AuthOracle
	lint       LintService
	attrRepo   repos.AttributeTypeRepo
	wsAttrRepo repos.WorkspaceAttributeTypeRepo
}

func NewAttributeTypeRegistryService(
	db *gorm.DB,
	baseLog *logger.Logger,
	idGen ids.Generator,
	oracle AuthOracle,
	lint LintService,
	attrRepo repos.AttributeTypeRepo,
	wsAttrRepo repos.WorkspaceAttributeTypeRepo,
) AttributeTypeRegistryService {
	serviceLog := baseLog.With("service", "AttributeTypeRegistryService")
	return &attributeTypeRegistryService{
		db:         db,
		log:        serviceLog,
		idGen:      idGen,
		oracle:     oracle,
		lint:       lint,
		attrRepo:   attrRepo,
		wsAttrRepo: wsAttrRepo,
	}
}

func validateAttributeTypeInput(input AttributeTypeInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.Validationf("attribute type name is required")
	}
	if input.Kind == "" {
		return apperrors.Validationf("attribute type kind is required")
	}
	if input.ValueType == "" {
		return apperrors.Validationf("attribute type value type is required")
	}
	return nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (as *attributeTypeRegistryService) Create(ctx context.Context, tx *gorm.DB, input AttributeTypeInput) (*types.AttributeType, error) {
	if err := validateAttributeTypeInput(input); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)

	existing, err := as.attrRepo.FindOneByNameOrSynonym(ctx, tx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	for _, syn := range input.Synonyms {
		hit, err := as.attrRepo.FindOneByNameOrSynonym(ctx, tx, syn)
		if err != nil {
			return nil, err
		}
		if hit != nil {
			return hit, nil
		}
	}

	status := input.Status
	if status == "" {
		status = types.StatusActive
	}
	appliesTo := input.AppliesTo
	if appliesTo == "" {
		appliesTo = types.AppliesBoth
	}
	principal, _ := ctxutil.GetPrincipal(ctx)

	at := &types.AttributeType{
		ID:              as.idGen.NewID("attr", ""),
		Name:            name,
		NameKey:         nameKey(name),
		Kind:            input.Kind,
		ValueType:       input.ValueType,
		Dimension:       input.Dimension,
		CanonicalUnit:   strings.ToUpper(strings.TrimSpace(input.CanonicalUnit)),
		AllowedUnits:    datatypes.NewJSONSlice(upperAll(input.AllowedUnits)),
		Synonyms:        datatypes.NewJSONSlice(trimAll(input.Synonyms)),
		Status:          status,
		AuditStatus:     types.AuditPendingReview,
		AppliesTo:       appliesTo,
		UsageHints:      datatypes.NewJSONSlice(trimAll(input.UsageHints)),
		ValidationRules: datatypes.NewJSONType(input.ValidationRules),
		CreatedBy:       principal.ID,
		Source:          input.Source,
	}
	if err := as.attrRepo.Insert(ctx, tx, at); err != nil {
		if again, lookupErr := as.attrRepo.FindOneByNameOrSynonym(ctx, tx, name); lookupErr == nil && again != nil {
			return again, nil
		}
		return nil, fmt.Errorf("insert attribute type %q: %w", name, err)
	}
	as.log.Info("attribute type created", "name", name, "kind", at.Kind)
	return at, nil
}

func (as *attributeTypeRegistryService) Update(ctx context.Context, tx *gorm.DB, id string, updates AttributeTypeUpdateInput) (*types.AttributeType, error) {
	at, err := as.attrRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load attribute type %s: %w", id, err)
	}
	if at == nil {
		return nil, apperrors.NotFoundf("attribute type %s", id)
	}

	if updates.Name != nil {
		newName := strings.TrimSpace(*updates.Name)
		if newName == "" {
			return nil, apperrors.Validationf("attribute type name cannot be empty")
		}
		if nameKey(newName) != at.NameKey {
			other, err := as.attrRepo.FindOneByNameOrSynonym(ctx, tx, newName)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != at.ID {
				return nil, apperrors.Conflictf("name %q already belongs to attribute type %s", newName, other.ID)
			}
		}
		at.Name = newName
		at.NameKey = nameKey(newName)
	}
	applyAttributeTypeUpdates(updates, &at.Kind, &at.ValueType, &at.Dimension, &at.CanonicalUnit, &at.AllowedUnits, &at.Synonyms, &at.Status, &at.AuditStatus, &at.AppliesTo, &at.UsageHints, &at.ValidationRules)

	principal, _ := ctxutil.GetPrincipal(ctx)
	at.UpdatedBy = principal.ID
	if err := as.attrRepo.Save(ctx, tx, at); err != nil {
		return nil, fmt.Errorf("save attribute type %s: %w", id, err)
	}
	return at, nil
}

func (as *attributeTypeRegistryService) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.AttributeType, error) {
	at, err := as.attrRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load attribute type %s: %w", id, err)
	}
	if at == nil {
		return nil, apperrors.NotFoundf("attribute type %s", id)
	}
	return at, nil
}

func (as *attributeTypeRegistryService) FindByNameOrSynonym(ctx context.Context, tx *gorm.DB, name string) (*types.AttributeType, error) {
	return as.attrRepo.FindOneByNameOrSynonym(ctx, tx, name)
}

func (as *attributeTypeRegistryService) List(ctx context.Context, tx *gorm.DB, filter repos.AttributeTypeFilter, page types.PageArgs) ([]*types.AttributeType, int64, error) {
	return as.attrRepo.List(ctx, tx, filter, page)
}

func (as *attributeTypeRegistryService) CreateWorkspace(ctx context.Context, tx *gorm.DB, workspaceID string, input AttributeTypeInput) (*types.WorkspaceAttributeType, error) {
	if workspaceID == "" {
		return nil, apperrors.Validationf("workspace id is required")
	}
	principal, err := requireWorkspaceAccess(ctx, as.oracle, PermWorkspaceWrite, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := validateAttributeTypeInput(input); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)

	// Workspace drafts of PHYSICAL quantities must name one atomic
	// measurable; qualifiers belong on tags.
	if input.Kind == types.KindPhysical {
		if err := as.lint.ValidatePhysicalAttributeName(name, input.Synonyms); err != nil {
			return nil, err
		}
	}

	existing, err := as.wsAttrRepo.FindOneByNameOrSynonym(ctx, tx, workspaceID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	status := input.Status
	if status == "" {
		status = types.StatusProposed
	}
	appliesTo := input.AppliesTo
	if appliesTo == "" {
		appliesTo = types.AppliesBoth
	}

	at := &types.WorkspaceAttributeType{
		ID:              as.idGen.NewID("wsattr", workspaceID),
		WorkspaceID:     workspaceID,
		Name:            name,
		NameKey:         nameKey(name),
		Kind:            input.Kind,
		ValueType:       input.ValueType,
		Dimension:       input.Dimension,
		CanonicalUnit:   strings.ToUpper(strings.TrimSpace(input.CanonicalUnit)),
		AllowedUnits:    datatypes.NewJSONSlice(upperAll(input.AllowedUnits)),
		Synonyms:        datatypes.NewJSONSlice(trimAll(input.Synonyms)),
		Status:          status,
		AuditStatus:     types.AuditPendingReview,
		AppliesTo:       appliesTo,
		UsageHints:      datatypes.NewJSONSlice(trimAll(input.UsageHints)),
		ValidationRules: datatypes.NewJSONType(input.ValidationRules),
		CreatedBy:       principal.ID,
		Source:          input.Source,
	}
	if err := as.wsAttrRepo.Insert(ctx, tx, at); err != nil {
		if again, lookupErr := as.wsAttrRepo.FindOneByNameOrSynonym(ctx, tx, workspaceID, name); lookupErr == nil && again != nil {
			return again, nil
		}
		return nil, fmt.Errorf("insert workspace attribute type %q: %w", name, err)
	}
	as.log.Info("workspace attribute type created", "workspace_id", workspaceID, "name", name)
	return at, nil
}

func (as *attributeTypeRegistryService) UpdateWorkspace(ctx context.Context, tx *gorm.DB, id string, updates AttributeTypeUpdateInput) (*types.WorkspaceAttributeType, error) {
	at, err := as.wsAttrRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load workspace attribute type %s: %w", id, err)
	}
	if at == nil {
		return nil, apperrors.NotFoundf("workspace attribute type %s", id)
	}
	principal, err := requireWorkspaceAccess(ctx, as.oracle, PermWorkspaceWrite, at.WorkspaceID)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		newName := strings.TrimSpace(*updates.Name)
		if newName == "" {
			return nil, apperrors.Validationf("attribute type name cannot be empty")
		}
		if at.Kind == types.KindPhysical {
			if err := as.lint.ValidatePhysicalAttributeName(newName, nil); err != nil {
				return nil, err
			}
		}
		if nameKey(newName) != at.NameKey {
			other, err := as.wsAttrRepo.FindOneByNameOrSynonym(ctx, tx, at.WorkspaceID, newName)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != at.ID {
				return nil, apperrors.Conflictf("name %q already belongs to workspace attribute type %s", newName, other.ID)
			}
		}
		at.Name = newName
		at.NameKey = nameKey(newName)
	}
	if updates.Synonyms != nil && at.Kind == types.KindPhysical {
		if err := as.lint.ValidatePhysicalAttributeName(at.Name, *updates.Synonyms); err != nil {
			return nil, err
		}
	}
	applyAttributeTypeUpdates(updates, &at.Kind, &at.ValueType, &at.Dimension, &at.CanonicalUnit, &at.AllowedUnits, &at.Synonyms, &at.Status, &at.AuditStatus, &at.AppliesTo, &at.UsageHints, &at.ValidationRules)

	at.UpdatedBy = principal.ID
	if err := as.wsAttrRepo.Save(ctx, tx, at); err != nil {
		return nil, fmt.Errorf("save workspace attribute type %s: %w", id, err)
	}
	return at, nil
}

func (as *attributeTypeRegistryService) GetWorkspaceByID(ctx context.Context, tx *gorm.DB, id string) (*types.WorkspaceAttributeType, error) {
	at, err := as.wsAttrRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load workspace attribute type %s: %w", id, err)
	}
	if at == nil {
		return nil, apperrors.NotFoundf("workspace attribute type %s", id)
	}
	if _, err := requireWorkspaceAccess(ctx, as.oracle, PermWorkspaceRead, at.WorkspaceID); err != nil {
		return nil, err
	}
	return at, nil
}

func (as *attributeTypeRegistryService) FindWorkspaceByGlobalID(ctx context.Context, tx *gorm.DB, workspaceID, globalID string) (*types.WorkspaceAttributeType, error) {
	if _, err := requireWorkspaceAccess(ctx, as.oracle, PermWorkspaceRead, workspaceID); err != nil {
		return nil, err
	}
	return as.wsAttrRepo.FindOneByGlobalID(ctx, tx, workspaceID, globalID)
}

func (as *attributeTypeRegistryService) FindWorkspaceByNameOrSynonym(ctx context.Context, tx *gorm.DB, workspaceID, name string) (*types.WorkspaceAttributeType, error) {
	if _, err := requireWorkspaceAccess(ctx, as.oracle, PermWorkspaceRead, workspaceID); err != nil {
		return nil, err
	}
	return as.wsAttrRepo.FindOneByNameOrSynonym(ctx, tx, workspaceID, name)
}

func (as *attributeTypeRegistryService) ListWorkspace(ctx context.Context, tx *gorm.DB, workspaceID string, filter repos.AttributeTypeFilter, page types.PageArgs) ([]*types.WorkspaceAttributeType, int64, error) {
	if _, err := requireWorkspaceAccess(ctx, as.oracle, PermWorkspaceRead, workspaceID); err != nil {
		return nil, 0, err
	}
	return as.wsAttrRepo.List(ctx, tx, workspaceID, filter, page)
}

// applyAttributeTypeUpdates copies the non-nil update fields shared by the
// global and workspace variants.
func applyAttributeTypeUpdates(
	updates AttributeTypeUpdateInput,
	kind *types.AttributeKind,
	valueType *types.ValueType,
	dimension *string,
	canonicalUnit *string,
	allowedUnits *datatypes.JSONSlice[string],
	synonyms *datatypes.JSONSlice[string],
	status *types.Status,
	auditStatus *types.AuditStatus,
	appliesTo *types.AppliesTo,
	usageHints *datatypes.JSONSlice[string],
	validationRules *datatypes.JSONType[*types.ValidationRules],
) {
	if updates.Kind != nil {
		*kind = *updates.Kind
	}
	if updates.ValueType != nil {
		*valueType = *updates.ValueType
	}
	if updates.Dimension != nil {
		*dimension = *updates.Dimension
	}
	if updates.CanonicalUnit != nil {
		*canonicalUnit = strings.ToUpper(strings.TrimSpace(*updates.CanonicalUnit))
	}
	if updates.AllowedUnits != nil {
		*allowedUnits = datatypes.NewJSONSlice(upperAll(*updates.AllowedUnits))
	}
	if updates.Synonyms != nil {
		*synonyms = datatypes.NewJSONSlice(trimAll(*updates.Synonyms))
	}
	if updates.Status != nil {
		*status = *updates.Status
	}
	if updates.AuditStatus != nil {
		*auditStatus = *updates.AuditStatus
	}
	if updates.AppliesTo != nil {
		*appliesTo = *updates.AppliesTo
	}
	if updates.UsageHints != nil {
		*usageHints = datatypes.NewJSONSlice(trimAll(*updates.UsageHints))
	}
	if updates.ValidationRules != nil {
		*validationRules = datatypes.NewJSONType(updates.ValidationRules)
	}
}

func trimAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func upperAll(in []string) []string {
	trimmed := trimAll(in)
	for i, s := range trimmed {
		trimmed[i] = strings.ToUpper(s)
	}
	return trimmed
}
