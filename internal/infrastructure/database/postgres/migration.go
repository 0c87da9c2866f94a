// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/rental-backend/internal/config"
	"github.com/your-org/rental-backend/internal/domain/cart"
	"github.com/your-org/rental-backend/internal/domain/order"
	"github.com/your-org/rental-backend/internal/domain/product"
	"github.com/your-org/rental-backend/internal/domain/user"
	"github.com/your-org/rental-backend/internal/infrastructure/database/seed"
	"github.com/your-org/rental-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db        *gorm.DB
	passwords *auth.PasswordManager
	logger    logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config, logger logrus.FieldLogger) *Migration {
	return &Migration{
		db:        db,
		passwords: auth.NewPasswordManager(cfg),
		logger:    logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("🔄 Running database auto-migrations...")

	// Dependency order
	models := []interface{}{
		&user.User{},
		&product.Product{},
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
	}

	for _, model := range models {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("✅ Database auto-migrations completed successfully")
	return nil
}

// openCartIndex backs cart.ErrOpenCartExists; without it concurrent first
// access can create two open carts for one user.
const openCartIndex = "CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user_open ON carts(user_id) WHERE status = 'open'"

// CreateIndexes creates the indexes AutoMigrate cannot express. Only a
// failure on the open cart index is returned; lookup indexes are best effort.
func (m *Migration) CreateIndexes() error {
	m.logger.Info("🔄 Creating additional database indexes...")

	if err := m.db.Exec(openCartIndex).Error; err != nil {
		return fmt.Errorf("failed to create open cart index: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart_created ON cart_items(cart_id, created_at)",

		// Order listing
		"CREATE INDEX IF NOT EXISTS idx_orders_customer_placed ON orders(customer_id, placed_at DESC NULLS LAST, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_seller_placed ON orders(seller_id, placed_at DESC NULLS LAST, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)",
	}

	failCount := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).WithField("sql", indexSQL).Warn("⚠️ Failed to create index")
			failCount++
		}
	}

	m.logger.Infof("✅ Created %d of %d indexes", 1+len(indexes)-failCount, 1+len(indexes))
	return nil
}

// SeedInitialData inserts the demo accounts and listings
func (m *Migration) SeedInitialData() error {
	m.logger.Info("🌱 Seeding initial data...")

	sellerID, err := m.seedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := m.seedProducts(sellerID); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	m.logger.Info("✅ Initial data seeded successfully")
	return nil
}

// seedUsers creates the demo accounts and returns the seller's id
func (m *Migration) seedUsers() (uint, error) {
	var sellerID uint

	for i, account := range seed.Accounts() {
		var existing user.User
		result := m.db.Where("email = ?", account.Email).Limit(1).Find(&existing)
		if result.Error != nil {
			return 0, result.Error
		}

		if result.RowsAffected == 0 {
			hashedPassword, err := m.passwords.HashPassword(account.Password)
			if err != nil {
				return 0, fmt.Errorf("failed to hash password: %w", err)
			}

			existing = user.User{
				Email:    account.Email,
				Password: hashedPassword,
				FullName: account.FullName,
				Role:     account.Role,
				IsActive: true,
			}
			if err := m.db.Create(&existing).Error; err != nil {
				return 0, fmt.Errorf("failed to create user %s: %w", account.Email, err)
			}
			m.logger.Infof("✅ Created %s user: %s (password: %s)", account.Role, account.Email, account.Password)
		} else {
			m.logger.Debugf("⏭️ User already exists: %s", account.Email)
		}

		if i == 0 {
			sellerID = existing.ID
		}
	}

	return sellerID, nil
}

func (m *Migration) seedProducts(sellerID uint) error {
	var productCount int64
	if err := m.db.Model(&product.Product{}).Where("seller_id = ?", sellerID).Count(&productCount).Error; err != nil {
		return err
	}

	if productCount > 0 {
		m.logger.Debug("⏭️ Demo products already exist")
		return nil
	}

	products := seed.Products(sellerID)
	if err := m.db.Create(&products).Error; err != nil {
		return err
	}

	m.logger.Infof("✅ Created %d demo products", len(products))
	return nil
}
