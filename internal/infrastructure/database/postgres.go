package database

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ausadhi/pos-api/internal/config"
	"github.com/ausadhi/pos-api/internal/domain/entity"
	"github.com/ausadhi/pos-api/internal/domain/enum"
	"github.com/ausadhi/pos-api/pkg/utils"
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

		// Inventory entities
		&entity.Category{},
		&entity.Product{},
		&entity.Vendor{},

		// Sales entities
		&entity.Sale{},
		&entity.SaleItem{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (roles, permissions,
// the admin user from the environment and a starter catalog)
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create default permissions
	permissions := []entity.Permission{
		{Name: "view-dashboard", GuardName: "web"},
		{Name: "manage-products", GuardName: "web"},
		{Name: "manage-vendors", GuardName: "web"},
		{Name: "manage-users", GuardName: "web"},
		{Name: "process-sales", GuardName: "web"},
		{Name: "void-sales", GuardName: "web"},
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

	// Create cashier role with the till permissions only
	cashierPermissions := []string{
		"view-dashboard",
		"process-sales",
	}
	var cashierPerms []entity.Permission
	for _, name := range cashierPermissions {
		for _, p := range allPermissions {
			if p.Name == name {
				cashierPerms = append(cashierPerms, p)
				break
			}
		}
	}

	var cashierRole entity.Role
	if err := db.Where("name = ?", "cashier").First(&cashierRole).Error; err != nil {
		cashierRole = entity.Role{
			Name:        "cashier",
			GuardName:   "web",
			Permissions: cashierPerms,
		}
		if err := db.Create(&cashierRole).Error; err != nil {
			log.Printf("Warning: failed to create cashier role: %v", err)
		}
	}

	seedUser := func(email, password, firstName, lastName string, role entity.Role) {
		if email == "" || password == "" {
			return
		}
		var existing entity.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Warning: failed to hash password for %s: %v", email, err)
			return
		}
		user := entity.User{
			ID:        uuid.New(),
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			Password:  string(hashed),
			Roles:     []entity.Role{role},
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Warning: failed to create user %s: %v", email, err)
		} else {
			log.Printf("Seeded user: %s (%s)", email, role.Name)
		}
	}

	seedUser(
		viper.GetString("ADMIN_EMAIL"),
		viper.GetString("ADMIN_PASSWORD"),
		"Pharmacy", "Admin",
		adminRole,
	)
	seedUser(
		viper.GetString("CASHIER_EMAIL"),
		viper.GetString("CASHIER_PASSWORD"),
		"Counter", "Cashier",
		cashierRole,
	)

	if err := seedCatalog(db); err != nil {
		log.Printf("Warning: failed to seed catalog: %v", err)
	}

	log.Println("Default data seeding completed")
	return nil
}

// seedCatalog loads a starter pharmacy catalog and vendor list on an empty
// database so a fresh install has something to sell.
func seedCatalog(db *gorm.DB) error {
	var productCount int64
	if err := db.Model(&entity.Product{}).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		return nil
	}

	categoryNames := []string{"Tablets", "Syrups", "Capsules", "Supplements", "First Aid"}
	categories := make(map[string]uuid.UUID, len(categoryNames))
	for _, name := range categoryNames {
		cat := entity.Category{Name: name, Slug: utils.Slugify(name)}
		if err := db.Create(&cat).Error; err != nil {
			return err
		}
		categories[name] = cat.ID
	}

	expiry := func(months int) *time.Time {
		t := time.Now().AddDate(0, months, 0)
		return &t
	}
	batch := func(no string) *string { return &no }

	type seedProduct struct {
		name     string
		category string
		price    int64 // cents
		stock    int
		reorder  int
		batchNo  string
		expiryIn int // months
	}
	seeds := []seedProduct{
		{"Paracetamol 500mg", "Tablets", 500, 120, 20, "PCM-2405", 18},
		{"Ibuprofen 400mg", "Tablets", 800, 80, 15, "IBU-2411", 14},
		{"Cetirizine 10mg", "Tablets", 300, 90, 15, "CTZ-2502", 20},
		{"Amoxicillin 250mg", "Capsules", 1200, 60, 10, "AMX-2408", 10},
		{"Omeprazole 20mg", "Capsules", 900, 70, 10, "OMP-2412", 16},
		{"Cough Syrup 100ml", "Syrups", 1500, 40, 8, "CSY-2409", 8},
		{"ORS Solution 200ml", "Syrups", 450, 50, 10, "ORS-2501", 12},
		{"Vitamin C 500mg", "Supplements", 700, 100, 20, "VTC-2410", 24},
		{"Calcium + D3", "Supplements", 1800, 45, 10, "CAL-2406", 22},
		{"Digital Thermometer", "First Aid", 35000, 15, 3, "", 0},
		{"Bandage Roll", "First Aid", 250, 200, 30, "", 0},
	}

	products := make([]entity.Product, 0, len(seeds))
	for _, sp := range seeds {
		catID := categories[sp.category]
		p := entity.Product{
			CategoryID:   &catID,
			Name:         sp.name,
			Slug:         utils.Slugify(sp.name),
			Barcode:      utils.GenerateBarcode(),
			Quantity:     sp.stock,
			ReorderLevel: sp.reorder,
			SellingPrice: sp.price,
			CostPrice:    sp.price * 70 / 100,
		}
		if sp.batchNo != "" {
			p.BatchNo = batch(sp.batchNo)
		}
		if sp.expiryIn > 0 {
			p.ExpiryDate = expiry(sp.expiryIn)
		}
		products = append(products, p)
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	phone := func(s string) *string { return &s }
	contact := func(s string) *string { return &s }
	vendors := []entity.Vendor{
		{Name: "Himalaya Distributors", ContactPerson: contact("Ramesh Shrestha"), Phone: phone("9841000001"), Status: enum.VendorStatusActive},
		{Name: "Everest Pharma Supply", ContactPerson: contact("Sunita Rai"), Phone: phone("9841000002"), Status: enum.VendorStatusActive},
		{Name: "Valley Medical Traders", ContactPerson: contact("Bikash Thapa"), Phone: phone("9841000003"), Status: enum.VendorStatusInactive},
	}
	if err := db.Create(&vendors).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d products and %d vendors", len(products), len(vendors))
	return nil
}
