package storage

import (
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the database and migrates the schema.
func New(dsn string) (*gorm.DB, error) {
	return open(postgres.Open(dsn))
}

// FromSQL migrates the schema on an already open postgres connection.
func FromSQL(conn *sql.DB) (*gorm.DB, error) {
	return open(postgres.New(postgres.Config{Conn: conn}))
}

func open(d gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&GameRecord{}, &MoveRecord{}); err != nil {
		return nil, err
	}
	return db, nil
}
