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

// AttributeValueInput is the write model for enumerated value creation.
type AttributeValueInput struct {
	AttributeTypeID string
	Value           string
	Synonyms        []string
	Codes           *types.ValueCodes
	Status          types.Status
	Source          string
}

// AttributeValueUpdateInput carries partial updates; nil fields are untouched.
type AttributeValueUpdateInput struct {
	Value       *string
	Synonyms    *[]string
	Codes       *types.ValueCodes
	Status      *types.Status
	AuditStatus *types.AuditStatus
}

// AttributeValueRegistryService manages enumerated values under attribute
// types, in both tiers.
type AttributeValueRegistryService interface {
	Create(ctx context.Context, tx *gorm.DB, input AttributeValueInput) (*types.AttributeValue, error)
	Update(ctx context.Context, tx *gorm.DB, id string, updates AttributeValueUpdateInput) (*types.AttributeValue, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.AttributeValue, error)
	FindByAttributeAndValueOrSynonym(ctx context.Context, tx *gorm.DB, attributeTypeID, value string) (*types.AttributeValue, error)
	List(ctx context.Context, tx *gorm.DB, filter repos.AttributeValueFilter, page types.PageArgs) ([]*types.AttributeValue, int64, error)

	CreateWorkspace(ctx context.Context, tx *gorm.DB, workspaceID string, input AttributeValueInput) (*types.WorkspaceAttributeValue, error)
	UpdateWorkspace(ctx context.Context, tx *gorm.DB, id string, updates AttributeValueUpdateInput) (*types.WorkspaceAttributeValue, error)
	FindWorkspaceByAttributeAndValueOrSynonym(ctx context.Context, tx *gorm.DB, workspaceID, attributeTypeID, value string) (*types.WorkspaceAttributeValue, error)
	ListWorkspace(ctx context.Context, tx *gorm.DB, workspaceID string, filter repos.AttributeValueFilter, page types.PageArgs) ([]*types.WorkspaceAttributeValue, int64, error)
}

type attributeValueRegistryService struct {
	db          *gorm.DB
	log         *logger.Logger
	idGen       ids.Generator
	oracle      AuthOracle
	valueRepo   repos.AttributeValueRepo
	wsValueRepo repos.WorkspaceAttributeValueRepo
	attrRepo    repos.AttributeTypeRepo
	wsAttrRepo  repos.WorkspaceAttributeTypeRepo
}

func NewAttributeValueRegistryService(
	db *gorm.DB,
	baseLog *logger.Logger,
	idGen ids.Generator,
	oracle AuthOracle,
	valueRepo repos.AttributeValueRepo,
	wsValueRepo repos.WorkspaceAttributeValueRepo,
	attrRepo repos.AttributeTypeRepo,
	wsAttrRepo repos.WorkspaceAttributeTypeRepo,
) AttributeValueRegistryService {
	serviceLog := baseLog.With("service", "AttributeValueRegistryService")
	return &attributeValueRegistryService{
		db:          db,
		log:         serviceLog,
		idGen:       idGen,
		oracle:      oracle,
		valueRepo:   valueRepo,
		wsValueRepo: wsValueRepo,
		attrRepo:    attrRepo,
		wsAttrRepo:  wsAttrRepo,
	}
}

func (vs *attributeValueRegistryService) Create(ctx context.Context, tx *gorm.DB, input AttributeValueInput) (*types.AttributeValue, error) {
	if input.AttributeTypeID == "" {
		return nil, apperrors.Validationf("attribute type id is required")
	}
	value := strings.TrimSpace(input.Value)
	if value == "" {
		return nil, apperrors.Validationf("attribute value is required")
	}
	owner, err := vs.attrRepo.GetByID(ctx, tx, input.AttributeTypeID)
	if err != nil {
		return nil, fmt.Errorf("load attribute type %s: %w", input.AttributeTypeID, err)
	}
	if owner == nil {
		return nil, apperrors.NotFoundf("attribute type %s", input.AttributeTypeID)
	}

	existing, err := vs.valueRepo.FindOneByAttributeAndValueOrSynonym(ctx, tx, input.AttributeTypeID, value)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	for _, syn := range input.Synonyms {
		hit, err := vs.valueRepo.FindOneByAttributeAndValueOrSynonym(ctx, tx, input.AttributeTypeID, syn)
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
	principal, _ := ctxutil.GetPrincipal(ctx)

	av := &types.AttributeValue{
		ID:              vs.idGen.NewID("attrval", ""),
		AttributeTypeID: input.AttributeTypeID,
		Value:           value,
		ValueKey:        strings.ToLower(value),
		Synonyms:        datatypes.NewJSONSlice(trimAll(input.Synonyms)),
		Codes:           datatypes.NewJSONType(input.Codes),
		Status:          status,
		AuditStatus:     types.AuditPendingReview,
		CreatedBy:       principal.ID,
		Source:          input.Source,
	}
	if err := vs.valueRepo.Insert(ctx, tx, av); err != nil {
		if again, lookupErr := vs.valueRepo.FindOneByAttributeAndValueOrSynonym(ctx, tx, input.AttributeTypeID, value); lookupErr == nil && again != nil {
			return again, nil
		}
		return nil, fmt.Errorf("insert attribute value %q: %w", value, err)
	}
	vs.log.Info("attribute value created", "attribute_type_id", input.AttributeTypeID, "value", value)
	return av, nil
}

func (vs *attributeValueRegistryService) Update(ctx context.Context, tx *gorm.DB, id string, updates AttributeValueUpdateInput) (*types.AttributeValue, error) {
	av, err := vs.valueRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load attribute value %s: %w", id, err)
	}
	if av == nil {
		return nil, apperrors.NotFoundf("attribute value %s", id)
	}

	if updates.Value != nil {
		newValue := strings.TrimSpace(*updates.Value)
		if newValue == "" {
			return nil, apperrors.Validationf("attribute value cannot be empty")
		}
		if strings.ToLower(newValue) != av.ValueKey {
			other, err := vs.valueRepo.FindOneByAttributeAndValueOrSynonym(ctx, tx, av.AttributeTypeID, newValue)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != av.ID {
				return nil, apperrors.Conflictf("value %q already belongs to attribute value %s", newValue, other.ID)
			}
		}
		av.Value = newValue
		av.ValueKey = strings.ToLower(newValue)
	}
	if updates.Synonyms != nil {
		av.Synonyms = datatypes.NewJSONSlice(trimAll(*updates.Synonyms))
	}
	if updates.Codes != nil {
		av.Codes = datatypes.NewJSONType(updates.Codes)
	}
	if updates.Status != nil {
		av.Status = *updates.Status
	}
	if updates.AuditStatus != nil {
		av.AuditStatus = *updates.AuditStatus
	}

	principal, _ := ctxutil.GetPrincipal(ctx)
	av.UpdatedBy = principal.ID
	if err := vs.valueRepo.Save(ctx, tx, av); err != nil {
		return nil, fmt.Errorf("save attribute value %s: %w", id, err)
	}
	return av, nil
}

func (vs *attributeValueRegistryService) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.AttributeValue, error) {
	av, err := vs.valueRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load attribute value %s: %w", id, err)
	}
	if av == nil {
		return nil, apperrors.NotFoundf("attribute value %s", id)
	}
	return av, nil
}

func (vs *attributeValueRegistryService) FindByAttributeAndValueOrSynonym(ctx context.Context, tx *gorm.DB, attributeTypeID, value string) (*types.AttributeValue, error) {
	return vs.valueRepo.FindOneByAttributeAndValueOrSynonym(ctx, tx, attributeTypeID, value)
}

func (vs *attributeValueRegistryService) List(ctx context.Context, tx *gorm.DB, filter repos.AttributeValueFilter, page types.PageArgs) ([]*types.AttributeValue, int64, error) {
	return vs.valueRepo.List(ctx, tx, filter, page)
}

func (vs *attributeValueRegistryService) CreateWorkspace(ctx context.Context, tx *gorm.DB, workspaceID string, input AttributeValueInput) (*types.WorkspaceAttributeValue, error) {
	if workspaceID == "" {
		return nil, apperrors.Validationf("workspace id is required")
	}
	principal, err := requireWorkspaceAccess(ctx, vs.oracle, PermWorkspaceWrite, workspaceID)
	if err != nil {
		return nil, err
	}
	if input.AttributeTypeID == "" {
		return nil, apperrors.Validationf("attribute type id is required")
	}
	value := strings.TrimSpace(input.Value)
	if value == "" {
		return nil, apperrors.Validationf("attribute value is required")
	}
	owner, err := vs.wsAttrRepo.GetByID(ctx, tx, input.AttributeTypeID)
	if err != nil {
		return nil, fmt.Errorf("load workspace attribute type %s: %w", input.AttributeTypeID, err)
	}
	if owner == nil {
		return nil, apperrors.NotFoundf("workspace attribute type %s", input.AttributeTypeID)
	}
	if owner.WorkspaceID != workspaceID {
		return nil, apperrors.Validationf("attribute type %s belongs to a different workspace", input.AttributeTypeID)
	}

	existing, err := vs.wsValueRepo.FindOneByAttributeAndValueOrSynonym(ctx, tx, workspaceID, input.AttributeTypeID, value)
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

	av := &types.WorkspaceAttributeValue{
		ID:              vs.idGen.NewID("wsattrval", workspaceID),
		WorkspaceID:     workspaceID,
		AttributeTypeID: input.AttributeTypeID,
		Value:           value,
		ValueKey:        strings.ToLower(value),
		Synonyms:        datatypes.NewJSONSlice(trimAll(input.Synonyms)),
		Codes:           datatypes.NewJSONType(input.Codes),
		Status:          status,
		AuditStatus:     types.AuditPendingReview,
		CreatedBy:       principal.ID,
		Source:          input.Source,
	}
	if err := vs.wsValueRepo.Insert(ctx, tx, av); err != nil {
		if again, lookupErr := vs.wsValueRepo.FindOneByAttributeAndValueOrSynonym(ctx, tx, workspaceID, input.AttributeTypeID, value); lookupErr == nil && again != nil {
			return again, nil
		}
		return nil, fmt.Errorf("insert workspace attribute value %q: %w", value, err)
	}
	vs.log.Info("workspace attribute value created", "workspace_id", workspaceID, "value", value)
	return av, nil
}

func (vs *attributeValueRegistryService) UpdateWorkspace(ctx context.Context, tx *gorm.DB, id string, updates AttributeValueUpdateInput) (*types.WorkspaceAttributeValue, error) {
	av, err := vs.wsValueRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load workspace attribute value %s: %w", id, err)
	}
	if av == nil {
		return nil, apperrors.NotFoundf("workspace attribute value %s", id)
	}
	principal, err := requireWorkspaceAccess(ctx, vs.oracle, PermWorkspaceWrite, av.WorkspaceID)
	if err != nil {
		return nil, err
	}

	if updates.Value != nil {
		newValue := strings.TrimSpace(*updates.Value)
		if newValue == "" {
			return nil, apperrors.Validationf("attribute value cannot be empty")
		}
		if strings.ToLower(newValue) != av.ValueKey {
			other, err := vs.wsValueRepo.FindOneByAttributeAndValueOrSynonym(ctx, tx, av.WorkspaceID, av.AttributeTypeID, newValue)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != av.ID {
				return nil, apperrors.Conflictf("value %q already belongs to workspace attribute value %s", newValue, other.ID)
			}
		}
		av.Value = newValue
		av.ValueKey = strings.ToLower(newValue)
	}
	if updates.Synonyms != nil {
		av.Synonyms = datatypes.NewJSONSlice(trimAll(*updates.Synonyms))
	}
	if updates.Codes != nil {
		av.Codes = datatypes.NewJSONType(updates.Codes)
	}
	if updates.Status != nil {
		av.Status = *updates.Status
	}
	if updates.AuditStatus != nil {
		av.AuditStatus = *updates.AuditStatus
	}

	av.UpdatedBy = principal.ID
	if err := vs.wsValueRepo.Save(ctx, tx, av); err != nil {
		return nil, fmt.Errorf("save workspace attribute value %s: %w", id, err)
	}
	return av, nil
}

func (vs *attributeValueRegistryService) FindWorkspaceByAttributeAndValueOrSynonym(ctx context.Context, tx *gorm.DB, workspaceID, attributeTypeID, value string) (*types.WorkspaceAttributeValue, error) {
	if _, err := requireWorkspaceAccess(ctx, vs.oracle, PermWorkspaceRead, workspaceID); err != nil {
		return nil, err
	}
	return vs.wsValueRepo.FindOneByAttributeAndValueOrSynonym(ctx, tx, workspaceID, attributeTypeID, value)
}

func (vs *attributeValueRegistryService) ListWorkspace(ctx context.Context, tx *gorm.DB, workspaceID string, filter repos.AttributeValueFilter, page types.PageArgs) ([]*types.WorkspaceAttributeValue, int64, error) {
	if _, err := requireWorkspaceAccess(ctx, vs.oracle, PermWorkspaceRead, workspaceID); err != nil {
		return nil, 0, err
	}
	return vs.wsValueRepo.List(ctx, tx, workspaceID, filter, page)
}
