package app

import (
	"github.com/vocabhub/vocab-backend/internal/pkg/logger"
	"github.com/vocabhub/vocab-backend/internal/utils"
)

type Config struct {
	LintConfigPath  string
	UnitCatalogPath string
}

func LoadConfig(log *logger.Logger) Config {
	lintConfigPath := utils.GetEnv("LINT_CONFIG_PATH", "", log)
	unitCatalogPath := utils.GetEnv("UNIT_CATALOG_PATH", "config/units.yaml", log)
	return Config{
		LintConfigPath:  lintConfigPath,
		UnitCatalogPath: unitCatalogPath,
	}
}
