package database

import (
	"time"

	"github.com/cittafutura/booking-service/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Exclusion constraints keep blocking intervals of a house disjoint even if
// two transactions slip past the row lock. tstzrange '[)' matches the
// half-open semantics of availability.Overlaps.
var overlapConstraints = []struct {
	name string
	sql  string
}{
	{
		name: "bookings_no_overlap",
		sql: `ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
			EXCLUDE USING gist (house_id WITH =, tstzrange(start_date, end_date, '[)') WITH &&)
			WHERE (status IN ('APPROVED', 'CHECKED_IN'))`,
	},
	{
		name: "blackouts_no_overlap",
		sql: `ALTER TABLE blackouts ADD CONSTRAINT blackouts_no_overlap
			EXCLUDE USING gist (house_id WITH =, tstzrange(start_date, end_date, '[)') WITH &&)`,
	},
}

var rangeChecks = []struct{ table, name string }{
	{table: "bookings", name: "bookings_valid_range"},
	{table: "blackouts", name: "blackouts_valid_range"},
}

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	return db
}

// Migrate creates tables, range checks and the overlap exclusion constraints.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.House{},
		&models.Booking{},
		&models.Blackout{},
		&models.BookingStatusEvent{},
	); err != nil {
		return err
	}

	for _, c := range rangeChecks {
		if err := db.Exec(`ALTER TABLE ` + c.table + ` DROP CONSTRAINT IF EXISTS ` + c.name).Error; err != nil {
			log.WithError(err).Warnf("could not drop constraint %s", c.name)
			continue
		}
		if err := db.Exec(`ALTER TABLE ` + c.table + ` ADD CONSTRAINT ` + c.name + ` CHECK (start_date < end_date)`).Error; err != nil {
			log.WithError(err).Warnf("could not create constraint %s", c.name)
		}
	}

	// btree_gist is needed for "house_id WITH =" inside a gist index; without it
	// the service still relies on the house row lock alone.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		log.WithError(err).Warn("btree_gist unavailable, skipping overlap exclusion constraints")
		return nil
	}

	for _, c := range overlapConstraints {
		var exists bool
		if err := db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name).Scan(&exists).Error; err != nil {
			log.WithError(err).Warnf("could not look up constraint %s", c.name)
			continue
		}
		if exists {
			continue
		}
		if err := db.Exec(c.sql).Error; err != nil {
			log.WithError(err).Warnf("could not create constraint %s", c.name)
		}
	}

	return nil
}
