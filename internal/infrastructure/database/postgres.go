package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/voltmart/backoffice-api/internal/config"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// User-related entities
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},

		// Catalog entities
		&entity.ProductType{},
		&entity.Product{},

		// Inventory entities
		&entity.Warehouse{},
		&entity.WarehouseStock{},

		// Sales entities
		&entity.Customer{},
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.DiscountLimit{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (roles, permissions, admin user)
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create default permissions
	permissions := []entity.Permission{
		{Name: "view-dashboard", GuardName: "web"},
		{Name: "manage-products", GuardName: "web"},
		{Name: "manage-product-types", GuardName: "web"},
		{Name: "manage-warehouses", GuardName: "web"},
		{Name: "manage-stock", GuardName: "web"},
		{Name: "manage-customers", GuardName: "web"},
		{Name: "manage-sales", GuardName: "web"},
		{Name: "view-all-sales", GuardName: "web"},
		{Name: "deliver-sales", GuardName: "web"},
		{Name: "cancel-sales", GuardName: "web"},
		{Name: "manage-discount-limits", GuardName: "web"},
		{Name: "manage-users", GuardName: "web"},
		{Name: "view-reports", GuardName: "web"},
	}

	for i := range permissions {
		var existing entity.Permission
		if err := db.Where("name = ?", permissions[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&permissions[i]).Error; err != nil {
				log.Printf("Warning: failed to create permission %s: %v", permissions[i].Name, err)
			}
		}
	}

	// Reload permissions with IDs
	var allPermissions []entity.Permission
	db.Find(&allPermissions)

	pick := func(names ...string) []entity.Permission {
		var out []entity.Permission
		for _, name := range names {
			for _, p := range allPermissions {
				if p.Name == name {
					out = append(out, p)
					break
				}
			}
		}
		return out
	}

	// Create super-admin role with all permissions
	var superAdminRole entity.Role
	if err := db.Where("name = ?", "super-admin").First(&superAdminRole).Error; err != nil {
		superAdminRole = entity.Role{
			Name:        "super-admin",
			GuardName:   "web",
			Permissions: allPermissions,
		}
		if err := db.Create(&superAdminRole).Error; err != nil {
			log.Printf("Warning: failed to create super-admin role: %v", err)
		}
	}

	// Create admin role with all permissions
	var adminRole entity.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		adminRole = entity.Role{
			Name:        "admin",
			GuardName:   "web",
			Permissions: allPermissions,
		}
		if err := db.Create(&adminRole).Error; err != nil {
			log.Printf("Warning: failed to create admin role: %v", err)
		}
	}

	// Create manager role: everything except user and limit administration
	var managerRole entity.Role
	if err := db.Where("name = ?", "manager").First(&managerRole).Error; err != nil {
		managerRole = entity.Role{
			Name:      "manager",
			GuardName: "web",
			Permissions: pick(
				"view-dashboard",
				"manage-products",
				"manage-product-types",
				"manage-warehouses",
				"manage-stock",
				"manage-customers",
				"manage-sales",
				"view-all-sales",
				"deliver-sales",
				"cancel-sales",
				"view-reports",
			),
		}
		if err := db.Create(&managerRole).Error; err != nil {
			log.Printf("Warning: failed to create manager role: %v", err)
		}
	}

	// Create seller role: composes and delivers own sales only
	var sellerRole entity.Role
	if err := db.Where("name = ?", "seller").First(&sellerRole).Error; err != nil {
		sellerRole = entity.Role{
			Name:      "seller",
			GuardName: "web",
			Permissions: pick(
				"view-dashboard",
				"manage-customers",
				"manage-sales",
				"deliver-sales",
			),
		}
		if err := db.Create(&sellerRole).Error; err != nil {
			log.Printf("Warning: failed to create seller role: %v", err)
		}
	}

	// Create super admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				var saRole entity.Role
				if err := db.Where("name = ?", "super-admin").First(&saRole).Error; err == nil {
					if adminName == "" {
						adminName = "Super Admin"
					}
					// Split admin name into first and last name
					firstName := adminName
					lastName := ""
					for i, c := range adminName {
						if c == ' ' {
							firstName = adminName[:i]
							lastName = adminName[i+1:]
							break
						}
					}
					adminUser := entity.User{
						ID:        uuid.New(),
						FirstName: firstName,
						LastName:  lastName,
						Email:     adminEmail,
						Password:  string(hashedPassword),
						Active:    true,
						Roles:     []entity.Role{saRole},
					}
					if err := db.Create(&adminUser).Error; err != nil {
						log.Printf("Warning: failed to create super admin user: %v", err)
					} else {
						log.Printf("Super admin user created: %s", adminEmail)
					}
				}
			}
		} else {
			log.Printf("Super admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
