package database

import (
	"database/sql"
	"time"

	"codecrux/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	log "github.com/sirupsen/logrus"
)

var DB *sql.DB

func Connect() {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		log.Fatalf("error opening database: %v", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err = DB.Ping(); err != nil {
		log.Fatalf("error connecting to database: %v", err)
	}

	log.Info("connected to PostgreSQL")
}

func Close() {
	if DB != nil {
		DB.Close()
		log.Info("database connection closed")
	}
}
