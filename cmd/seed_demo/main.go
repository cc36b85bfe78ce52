package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yardpoint/pipeyardgo/internal/config"
	"github.com/yardpoint/pipeyardgo/internal/database"
	"github.com/yardpoint/pipeyardgo/internal/models"
	"github.com/yardpoint/pipeyardgo/internal/utils"
)

func main() {
	fmt.Println("PipeYard Demo Data Seeder")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("Connected to database")

	// Run migrations first
	fmt.Println("Running database migrations...")
	err = db.AutoMigrate(
		&models.Company{},
		&models.UserAuth{},
		&models.Rack{},
		&models.StorageRequest{},
		&models.TruckingLoad{},
		&models.ManifestDocument{},
		&models.ManifestLine{},
		&models.InventoryItem{},
		&models.RackAdjustment{},
		&models.NotificationOutbox{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := db.InstallConstraints(); err != nil {
		log.Fatalf("Constraint installation failed: %v", err)
	}
	fmt.Println("Migrations complete")

	// Check if data already exists
	var rackCount int64
	db.Model(&models.Rack{}).Count(&rackCount)
	if rackCount > 0 {
		fmt.Printf("Database already has %d racks. Clear it first? (y/N): ", rackCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted. Database not modified.")
			return
		}

		fmt.Println("Clearing existing data...")
		db.Exec("TRUNCATE TABLE notification_outbox CASCADE")
		db.Exec("TRUNCATE TABLE rack_adjustments CASCADE")
		db.Exec("TRUNCATE TABLE inventory_items CASCADE")
		db.Exec("TRUNCATE TABLE manifest_lines CASCADE")
		db.Exec("TRUNCATE TABLE manifest_documents CASCADE")
		db.Exec("TRUNCATE TABLE trucking_loads CASCADE")
		db.Exec("TRUNCATE TABLE storage_requests CASCADE")
		db.Exec("TRUNCATE TABLE racks CASCADE")
		db.Exec("TRUNCATE TABLE user_auth CASCADE")
		db.Exec("TRUNCATE TABLE companies CASCADE")
	}

	// Yard topology: three areas, linear racks plus a few whole-claim slots.
	fmt.Println("Seeding yard topology...")
	count := 0
	for _, area := range []string{"A", "B", "C"} {
		for row := 1; row <= 4; row++ {
			for slot := 1; slot <= 6; slot++ {
				rack := models.Rack{
					Code:           fmt.Sprintf("%s-%d-%02d", area, row, slot),
					AreaID:         area,
					Mode:           models.RackModeLinear,
					CapacityJoints: 100,
					CapacityLength: decimal.NewFromInt(1200),
					IsActive:       true,
				}
				if area == "C" && row == 4 {
					// Oversize slots: claimed whole.
					rack.Mode = models.RackModeSlot
					rack.CapacityJoints = 40
					rack.CapacityLength = decimal.NewFromInt(500)
				}
				if err := db.Create(&rack).Error; err != nil {
					log.Fatalf("Failed to create rack %s: %v", rack.Code, err)
				}
				count++
			}
		}
	}
	fmt.Printf("Created %d racks\n", count)

	// Demo tenant and accounts
	fmt.Println("Seeding demo company and users...")
	company := models.Company{
		ID:           uuid.New(),
		Name:         "Permian Basin Drilling LLC",
		ContactEmail: "logistics@permianbasindrilling.example",
		IsActive:     true,
	}
	if err := db.Create(&company).Error; err != nil {
		log.Fatalf("Failed to create company: %v", err)
	}

	adminHash, _ := utils.HashPassword("admin12345")
	customerHash, _ := utils.HashPassword("customer12345")
	users := []models.UserAuth{
		{
			ID:           uuid.New(),
			Email:        "admin@pipeyard.example",
			PasswordHash: adminHash,
			Name:         "Yard Admin",
			Role:         "admin",
			IsActive:     true,
		},
		{
			ID:           uuid.New(),
			Email:        "customer@permianbasindrilling.example",
			PasswordHash: customerHash,
			Name:         "Customer Contact",
			Role:         "customer",
			CompanyID:    &company.ID,
			IsActive:     true,
		},
	}
	if err := db.Create(&users).Error; err != nil {
		log.Fatalf("Failed to create users: %v", err)
	}

	fmt.Println()
	fmt.Println("Done. Demo accounts:")
	fmt.Println("  admin@pipeyard.example / admin12345")
	fmt.Println("  customer@permianbasindrilling.example / customer12345")
}
