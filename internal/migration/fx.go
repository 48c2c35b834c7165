package migration

import (
	auditdomain "github.com/smallbiznis/sambatan/internal/audit/domain"
	campaigndomain "github.com/smallbiznis/sambatan/internal/campaign/domain"
	catalogdomain "github.com/smallbiznis/sambatan/internal/catalog/domain"
	"github.com/smallbiznis/sambatan/internal/config"
	participantdomain "github.com/smallbiznis/sambatan/internal/participant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// Versioned migrations are written for postgres. Other dialects
		// (sqlite for local dev, mysql) get the schema from the models.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&catalogdomain.Product{},
				&campaigndomain.Campaign{},
				&participantdomain.Participant{},
				&auditdomain.Entry{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
