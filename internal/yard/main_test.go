package yard

import (
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yardpoint/pipeyardgo/internal/database"
	"github.com/yardpoint/pipeyardgo/internal/models"
)

const testPGPort = 55439

// testDB is nil when the embedded Postgres binary could not start; tests
// requiring the database skip themselves in that case.
var testDB *database.DB

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	dataDir, err := os.MkdirTemp("", "pipeyard-yard-test")
	if err != nil {
		fmt.Fprintf(os.Stderr, "temp dir: %v\n", err)
		return 1
	}
	defer os.RemoveAll(dataDir)

	epg := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		DataPath(dataDir).
		Port(testPGPort).
		Logger(os.Stderr).
		StartTimeout(45 * time.Second))

	if err := epg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "embedded postgres unavailable, DB tests will be skipped: %v\n", err)
		return m.Run()
	}
	defer epg.Stop()

	dsn := fmt.Sprintf("host=localhost port=%d user=postgres password=postgres dbname=postgres sslmode=disable", testPGPort)
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to embedded postgres: %v\n", err)
		return 1
	}
	testDB = &database.DB{DB: gormDB}

	if err := testDB.AutoMigrate(
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
	); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		return 1
	}
	if err := testDB.InstallConstraints(); err != nil {
		fmt.Fprintf(os.Stderr, "constraints: %v\n", err)
		return 1
	}

	return m.Run()
}

// newTestService skips the test when no database is available and returns a
// service on a clean schema.
func newTestService(t *testing.T) *Service {
	t.Helper()
	if testDB == nil {
		t.Skip("embedded postgres not available")
	}
	for _, table := range []string{
		"notification_outbox",
		"rack_adjustments",
		"inventory_items",
		"manifest_lines",
		"manifest_documents",
		"trucking_loads",
		"storage_requests",
		"racks",
		"user_auth",
		"companies",
	} {
		if err := testDB.Exec("TRUNCATE TABLE " + table + " CASCADE").Error; err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewService(testDB, log, 20)
}
