package migration

import (
	"github.com/nexthub/intranet-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for every content table and the migration ledger.
// Existing tables are left alone apart from additive column changes.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Guide{},
		&domain.WorkPosition{},
		&domain.WorkUnit{},
		&domain.CommunityEvent{},
		&AppliedMigration{},
	)
}
