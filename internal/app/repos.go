package app

import (
	"gorm.io/gorm"

	"github.com/vocabhub/vocab-backend/internal/pkg/logger"
	"github.com/vocabhub/vocab-backend/internal/repos"
)

type Repos struct {
	Unit                    repos.UnitRepo
	Tag                     repos.TagRepo
	WorkspaceTag            repos.WorkspaceTagRepo
	AttributeType           repos.AttributeTypeRepo
	WorkspaceAttributeType  repos.WorkspaceAttributeTypeRepo
	AttributeValue          repos.AttributeValueRepo
	WorkspaceAttributeValue repos.WorkspaceAttributeValueRepo
	TagRelation             repos.TagRelationRepo
	AttributeRelation       repos.AttributeRelationRepo
	ParseRule               repos.ParseRuleRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Unit:                    repos.NewUnitRepo(db, log),
		Tag:                     repos.NewTagRepo(db, log),
		WorkspaceTag:            repos.NewWorkspaceTagRepo(db, log),
		AttributeType:           repos.NewAttributeTypeRepo(db, log),
		WorkspaceAttributeType:  repos.NewWorkspaceAttributeTypeRepo(db, log),
		AttributeValue:          repos.NewAttributeValueRepo(db, log),
		WorkspaceAttributeValue: repos.NewWorkspaceAttributeValueRepo(db, log),
		TagRelation:             repos.NewTagRelationRepo(db, log),
		AttributeRelation:       repos.NewAttributeRelationRepo(db, log),
		ParseRule:               repos.NewParseRuleRepo(db, log),
	}
}
