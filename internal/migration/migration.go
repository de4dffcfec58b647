package migration

import (
	customerdomain "github.com/cablepro/cablepro/internal/customer/domain"
	paymentdomain "github.com/cablepro/cablepro/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(Run),
)

// Run applies the schema on startup. The whole model fits in two tables, so
// gorm's AutoMigrate is enough; there is no versioned migration history.
func Run(db *gorm.DB, log *zap.Logger) error {
	err := db.AutoMigrate(
		&customerdomain.Customer{},
		&paymentdomain.Payment{},
	)
	if err != nil {
		log.Error("schema migration failed", zap.Error(err))
		return err
	}
	log.Info("schema migrated")
	return nil
}
