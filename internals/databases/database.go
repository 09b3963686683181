package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"yogacenter_backend/internals/configs"
)

var DB *gorm.DB

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func ConnectDB() {
	log.Printf("🔌 Connecting database (driver=%s)...", configs.DBDriver)

	db, err := Open(configs.DBDriver)
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true, // unique violation -> gorm.ErrDuplicatedKey
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// Open memilih dialector dari DB_DRIVER.
func Open(driver string) (*gorm.DB, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverPostgres:
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  postgresDSN(),
			PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
		}), gormConfig())
	case DriverSQLite, "":
		return OpenSQLite(configs.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func postgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=yogacenter&options=-c statement_timeout=3000",
		configs.GetEnv("DB_USER"),
		configs.GetEnv("DB_PASSWORD"),
		configs.GetEnv("DB_HOST"),
		configs.GetEnv("DB_PORT", "5432"),
		configs.GetEnv("DB_NAME"),
		configs.GetEnv("DB_SSLMODE", "require"),
	)
}

// OpenSQLite membuka database embedded. Satu koneksi saja: sqlite hanya punya
// satu writer, transaksi reservasi jadi berurutan.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := path
	switch {
	case strings.Contains(path, "?"):
	case path == ":memory:":
		dsn = path + "?_pragma=foreign_keys(1)"
	default:
		dsn = path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	return db, nil
}

func TunePool() {
	if DB == nil || DB.Dialector.Name() != DriverPostgres {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	// jalankan ringan supaya koneksi/pool siap
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(DB); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func Ping(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialised")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
