package db

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	constant "liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

var (
	instance *DB
	once     sync.Once
)

// GetInstance returns the process wide connection, opening and migrating it
// on first use.
func GetInstance(dialector gorm.Dialector) *DB {
	once.Do(func() {
		var err error
		if instance, err = Open(dialector); err != nil {
			log.Fatal("Failed to open database:", err)
		}
	})
	return instance
}

// Open connects and migrates a fresh connection without touching the
// process wide instance.
func Open(dialector gorm.Dialector) (*DB, error) {
	var logger = constant.GetLogger()

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	if err := Migrate(conn); err != nil {
		return nil, err
	}

	logger.Info("Database migration completed")

	if dialector.Name() == "sqlite" {
		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign key support: %w", err)
		}

		if err := conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, fmt.Errorf("set sqlite journal mode: %w", err)
		}
	}

	return &DB{Conn: conn}, nil
}

func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.Device{},
		&models.SensorReading{},
		&models.NotificationSettings{},
		&models.Notification{},
		&models.Chick{},
		&models.UserContact{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

func UseSqliteDialector() gorm.Dialector {
	var dbPath string
	var found bool
	if dbPath, found = os.LookupEnv(constant.EnvKeyIOTDbPath); !found {
		dbPath = "poultry.db"
	}
	return sqlite.Open(dbPath)
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared")
}

// UseIsolatedMemorySqliteDialector names a private in-memory database so a
// test sees only the rows it wrote.
func UseIsolatedMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString()))
}

// OpenIsolatedMemory opens a private in-memory database limited to one
// connection, so concurrent writers queue instead of hitting table locks.
func OpenIsolatedMemory() (*DB, error) {
	instance, err := Open(UseIsolatedMemorySqliteDialector())
	if err != nil {
		return nil, err
	}
	sqlDB, err := instance.Conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return instance, nil
}

// UsePostgresDialector reads IOT_DB_DSN and goes through lib/pq.
func UsePostgresDialector() gorm.Dialector {
	return postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        os.Getenv(constant.EnvKeyIOTDbDSN),
	})
}
