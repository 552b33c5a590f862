package migration

import (
	"fmt"

	"github.com/lumishop/shopadmin/internal/infrastructure/persistence/models"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

const (
	StrategyGoose         = "goose"
	StrategyGolangMigrate = "golang-migrate"
	StrategyAuto          = "auto"
)

// NewStrategy picks a migration strategy by name for the given database driver.
// An empty name means goose.
func NewStrategy(name, driver string, log logger.Interface) (Strategy, error) {
	switch name {
	case "", StrategyGoose:
		return NewGooseStrategy(driver, log)
	case StrategyGolangMigrate:
		if driver != "mysql" {
			return nil, fmt.Errorf("golang-migrate scripts target mysql, not %q", driver)
		}
		return NewGolangMigrateStrategy(log), nil
	case StrategyAuto:
		return NewAutoMigrateStrategy(models.All(), log), nil
	}
	return nil, fmt.Errorf("unknown migration strategy %q (goose, golang-migrate or auto)", name)
}
