package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
	"github.com/vocabhub/vocab-backend/internal/pkg/logger"
	"github.com/vocabhub/vocab-backend/internal/repos"
	"github.com/vocabhub/vocab-backend/internal/types"
)

// sourceWorkspacePromotion marks global entities minted by promoting a
// workspace draft.
const sourceWorkspacePromotion = "workspace_promotion"

// PromotionService links or creates global counterparts for workspace
// drafts. Every operation is idempotent: re-promoting an already linked
// draft returns the linked global entity unchanged.
type PromotionService interface {
	PromoteTagToGlobal(ctx context.Context, tx *gorm.DB, workspaceTagID, targetGlobalID string) (*types.Tag, error)
	PromoteAttributeTypeToGlobal(ctx context.Context, tx *gorm.DB, workspaceAttributeTypeID, targetGlobalID string) (*types.AttributeType, error)
	// PromoteAttributeValueToGlobal requires that the value's owning
	// attribute type has already been promoted; types come before values.
	PromoteAttributeValueToGlobal(ctx context.Context, tx *gorm.DB, workspaceAttributeValueID, targetGlobalID string) (*types.AttributeValue, error)
}

type promotionService struct {
	db          *gorm.DB
	log         *logger.Logger
	oracle      AuthOracle
	tags        TagRegistryService
	attrs       AttributeTypeRegistryService
	values      AttributeValueRegistryService
	wsTagRepo   repos.WorkspaceTagRepo
	wsAttrRepo  repos.WorkspaceAttributeTypeRepo
	wsValueRepo repos.WorkspaceAttributeValueRepo
	tagRepo     repos.TagRepo
	attrRepo    repos.AttributeTypeRepo
	valueRepo   repos.AttributeValueRepo
}

func NewPromotionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	oracle AuthOracle,
	tags TagRegistryService,
	attrs AttributeTypeRegistryService,
	values AttributeValueRegistryService,
	wsTagRepo repos.WorkspaceTagRepo,
	wsAttrRepo repos.WorkspaceAttributeTypeRepo,
	wsValueRepo repos.WorkspaceAttributeValueRepo,
	tagRepo repos.TagRepo,
	attrRepo repos.AttributeTypeRepo,
	valueRepo repos.AttributeValueRepo,
) PromotionService {
	serviceLog := baseLog.With("service", "PromotionService")
	return &promotionService{
		db:          db,
		log:         serviceLog,
		oracle:      oracle,
		tags:        tags,
		attrs:       attrs,
		values:      values,
		wsTagRepo:   wsTagRepo,
		wsAttrRepo:  wsAttrRepo,
		wsValueRepo: wsValueRepo,
		tagRepo:     tagRepo,
		attrRepo:    attrRepo,
		valueRepo:   valueRepo,
	}
}

func (ps *promotionService) runInTx(tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx != nil {
		return fn(tx)
	}
	return ps.db.Transaction(fn)
}

func (ps *promotionService) PromoteTagToGlobal(ctx context.Context, tx *gorm.DB, workspaceTagID, targetGlobalID string) (*types.Tag, error) {
	var result *types.Tag
	err := ps.runInTx(tx, func(tx *gorm.DB) error {
		wsTag, err := ps.wsTagRepo.GetByID(ctx, tx, workspaceTagID)
		if err != nil {
			return fmt.Errorf("load workspace tag %s: %w", workspaceTagID, err)
		}
		if wsTag == nil {
			return apperrors.NotFoundf("workspace tag %s", workspaceTagID)
		}
		if _, err := requireWorkspaceAccess(ctx, ps.oracle, PermWorkspaceRead, wsTag.WorkspaceID); err != nil {
			return err
		}

		if targetGlobalID != "" {
			target, err := ps.tagRepo.GetByID(ctx, tx, targetGlobalID)
			if err != nil {
				return fmt.Errorf("load global tag %s: %w", targetGlobalID, err)
			}
			if target == nil {
				return apperrors.NotFoundf("global tag %s", targetGlobalID)
			}
			if err := ps.linkWorkspaceTag(ctx, tx, wsTag, target.ID); err != nil {
				return err
			}
			result = target
			return nil
		}

		if wsTag.GlobalTagID != "" {
			target, err := ps.tagRepo.GetByID(ctx, tx, wsTag.GlobalTagID)
			if err != nil {
				return fmt.Errorf("load global tag %s: %w", wsTag.GlobalTagID, err)
			}
			if target == nil {
				return apperrors.NotFoundf("global tag %s linked from workspace tag %s", wsTag.GlobalTagID, wsTag.ID)
			}
			result = target
			return nil
		}

		// Dedup on promote: an existing global tag with the same identity
		// absorbs the draft instead of spawning a duplicate.
		for _, candidate := range identityCandidates(wsTag.Label, wsTag.Synonyms) {
			hit, err := ps.tags.FindByLabelOrSynonym(ctx, tx, candidate)
			if err != nil {
				return err
			}
			if hit != nil {
				if err := ps.linkWorkspaceTag(ctx, tx, wsTag, hit.ID); err != nil {
					return err
				}
				result = hit
				return nil
			}
		}

		created, err := ps.tags.CreateTag(ctx, tx, TagCreateInput{
			Label:       wsTag.Label,
			DisplayName: wsTag.DisplayName,
			Pos:         wsTag.Pos,
			Synonyms:    wsTag.Synonyms,
			Notes:       wsTag.Notes,
			Status:      types.StatusProposed,
			Source:      sourceWorkspacePromotion,
		})
		if err != nil {
			return err
		}
		if err := ps.linkWorkspaceTag(ctx, tx, wsTag, created.ID); err != nil {
			return err
		}
		ps.log.Info("workspace tag promoted", "workspace_tag_id", wsTag.ID, "global_tag_id", created.ID)
		result = created
		return nil
	})
	return result, err
}

func (ps *promotionService) linkWorkspaceTag(ctx context.Context, tx *gorm.DB, wsTag *types.WorkspaceTag, globalID string) error {
	if wsTag.GlobalTagID == globalID {
		return nil
	}
	if err := ps.wsTagRepo.UpdateFields(ctx, tx, wsTag.ID, map[string]interface{}{"global_tag_id": globalID}); err != nil {
		return fmt.Errorf("link workspace tag %s to global %s: %w", wsTag.ID, globalID, err)
	}
	wsTag.GlobalTagID = globalID
	return nil
}

func (ps *promotionService) PromoteAttributeTypeToGlobal(ctx context.Context, tx *gorm.DB, workspaceAttributeTypeID, targetGlobalID string) (*types.AttributeType, error) {
	var result *types.AttributeType
	err := ps.runInTx(tx, func(tx *gorm.DB) error {
		wsAttr, err := ps.wsAttrRepo.GetByID(ctx, tx, workspaceAttributeTypeID)
		if err != nil {
			return fmt.Errorf("load workspace attribute type %s: %w", workspaceAttributeTypeID, err)
		}
		if wsAttr == nil {
			return apperrors.NotFoundf("workspace attribute type %s", workspaceAttributeTypeID)
		}
		if _, err := requireWorkspaceAccess(ctx, ps.oracle, PermWorkspaceRead, wsAttr.WorkspaceID); err != nil {
			return err
		}

		if targetGlobalID != "" {
			target, err := ps.attrRepo.GetByID(ctx, tx, targetGlobalID)
			if err != nil {
				return fmt.Errorf("load global attribute type %s: %w", targetGlobalID, err)
			}
			if target == nil {
				return apperrors.NotFoundf("global attribute type %s", targetGlobalID)
			}
			if err := ps.linkWorkspaceAttributeType(ctx, tx, wsAttr, target.ID); err != nil {
				return err
			}
			result = target
			return nil
		}

		if wsAttr.GlobalAttributeTypeID != "" {
			target, err := ps.attrRepo.GetByID(ctx, tx, wsAttr.GlobalAttributeTypeID)
			if err != nil {
				return fmt.Errorf("load global attribute type %s: %w", wsAttr.GlobalAttributeTypeID, err)
			}
			if target == nil {
				return apperrors.NotFoundf("global attribute type %s linked from workspace attribute type %s", wsAttr.GlobalAttributeTypeID, wsAttr.ID)
			}
			result = target
			return nil
		}

		for _, candidate := range identityCandidates(wsAttr.Name, wsAttr.Synonyms) {
			hit, err := ps.attrRepo.FindOneByNameOrSynonym(ctx, tx, candidate)
			if err != nil {
				return err
			}
			if hit != nil {
				if err := ps.linkWorkspaceAttributeType(ctx, tx, wsAttr, hit.ID); err != nil {
					return err
				}
				result = hit
				return nil
			}
		}

		created, err := ps.attrs.Create(ctx, tx, AttributeTypeInput{
			Name:            wsAttr.Name,
			Kind:            wsAttr.Kind,
			ValueType:       wsAttr.ValueType,
			Dimension:       wsAttr.Dimension,
			CanonicalUnit:   wsAttr.CanonicalUnit,
			AllowedUnits:    wsAttr.AllowedUnits,
			Synonyms:        wsAttr.Synonyms,
			Status:          types.StatusProposed,
			AppliesTo:       wsAttr.AppliesTo,
			UsageHints:      wsAttr.UsageHints,
			ValidationRules: wsAttr.ValidationRules.Data(),
			Source:          sourceWorkspacePromotion,
		})
		if err != nil {
			return err
		}
		if err := ps.linkWorkspaceAttributeType(ctx, tx, wsAttr, created.ID); err != nil {
			return err
		}
		ps.log.Info("workspace attribute type promoted", "workspace_attribute_type_id", wsAttr.ID, "global_attribute_type_id", created.ID)
		result = created
		return nil
	})
	return result, err
}

func (ps *promotionService) linkWorkspaceAttributeType(ctx context.Context, tx *gorm.DB, wsAttr *types.WorkspaceAttributeType, globalID string) error {
	if wsAttr.GlobalAttributeTypeID == globalID {
		return nil
	}
	if err := ps.wsAttrRepo.UpdateFields(ctx, tx, wsAttr.ID, map[string]interface{}{"global_attribute_type_id": globalID}); err != nil {
		return fmt.Errorf("link workspace attribute type %s to global %s: %w", wsAttr.ID, globalID, err)
	}
	wsAttr.GlobalAttributeTypeID = globalID
	return nil
}

func (ps *promotionService) PromoteAttributeValueToGlobal(ctx context.Context, tx *gorm.DB, workspaceAttributeValueID, targetGlobalID string) (*types.AttributeValue, error) {
	var result *types.AttributeValue
	err := ps.runInTx(tx, func(tx *gorm.DB) error {
		wsValue, err := ps.wsValueRepo.GetByID(ctx, tx, workspaceAttributeValueID)
		if err != nil {
			return fmt.Errorf("load workspace attribute value %s: %w", workspaceAttributeValueID, err)
		}
		if wsValue == nil {
			return apperrors.NotFoundf("workspace attribute value %s", workspaceAttributeValueID)
		}
		if _, err := requireWorkspaceAccess(ctx, ps.oracle, PermWorkspaceRead, wsValue.WorkspaceID); err != nil {
			return err
		}

		// Types before values: the owning draft type must already carry a
		// global link.
		wsAttr, err := ps.wsAttrRepo.GetByID(ctx, tx, wsValue.AttributeTypeID)
		if err != nil {
			return fmt.Errorf("load workspace attribute type %s: %w", wsValue.AttributeTypeID, err)
		}
		if wsAttr == nil {
			return apperrors.NotFoundf("workspace attribute type %s owning value %s", wsValue.AttributeTypeID, wsValue.ID)
		}
		if wsAttr.GlobalAttributeTypeID == "" {
			return apperrors.Orderingf("attribute type %q must be promoted before its values", wsAttr.Name)
		}

		if targetGlobalID != "" {
			target, err := ps.valueRepo.GetByID(ctx, tx, targetGlobalID)
			if err != nil {
				return fmt.Errorf("load global attribute value %s: %w", targetGlobalID, err)
			}
			if target == nil {
				return apperrors.NotFoundf("global attribute value %s", targetGlobalID)
			}
			if err := ps.linkWorkspaceAttributeValue(ctx, tx, wsValue, target.ID); err != nil {
				return err
			}
			result = target
			return nil
		}

		if wsValue.GlobalAttributeValueID != "" {
			target, err := ps.valueRepo.GetByID(ctx, tx, wsValue.GlobalAttributeValueID)
			if err != nil {
				return fmt.Errorf("load global attribute value %s: %w", wsValue.GlobalAttributeValueID, err)
			}
			if target == nil {
				return apperrors.NotFoundf("global attribute value %s linked from workspace value %s", wsValue.GlobalAttributeValueID, wsValue.ID)
			}
			result = target
			return nil
		}

		for _, candidate := range identityCandidates(wsValue.Value, wsValue.Synonyms) {
			hit, err := ps.valueRepo.FindOneByAttributeAndValueOrSynonym(ctx, tx, wsAttr.GlobalAttributeTypeID, candidate)
			if err != nil {
				return err
			}
			if hit != nil {
				if err := ps.linkWorkspaceAttributeValue(ctx, tx, wsValue, hit.ID); err != nil {
					return err
				}
				result = hit
				return nil
			}
		}

		created, err := ps.values.Create(ctx, tx, AttributeValueInput{
			AttributeTypeID: wsAttr.GlobalAttributeTypeID,
			Value:           wsValue.Value,
			Synonyms:        wsValue.Synonyms,
			Codes:           wsValue.Codes.Data(),
			Status:          types.StatusProposed,
			Source:          sourceWorkspacePromotion,
		})
		if err != nil {
			return err
		}
		if err := ps.linkWorkspaceAttributeValue(ctx, tx, wsValue, created.ID); err != nil {
			return err
		}
		ps.log.Info("workspace attribute value promoted", "workspace_attribute_value_id", wsValue.ID, "global_attribute_value_id", created.ID)
		result = created
		return nil
	})
	return result, err
}

func (ps *promotionService) linkWorkspaceAttributeValue(ctx context.Context, tx *gorm.DB, wsValue *types.WorkspaceAttributeValue, globalID string) error {
	if wsValue.GlobalAttributeValueID == globalID {
		return nil
	}
	if err := ps.wsValueRepo.UpdateFields(ctx, tx, wsValue.ID, map[string]interface{}{"global_attribute_value_id": globalID}); err != nil {
		return fmt.Errorf("link workspace attribute value %s to global %s: %w", wsValue.ID, globalID, err)
	}
	wsValue.GlobalAttributeValueID = globalID
	return nil
}
