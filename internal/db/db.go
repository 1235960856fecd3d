package db

import (
	"database/sql"

	"github.com/cyverse-de/dbutil"
	"github.com/pkg/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init establishes the database connection and wraps it in a GORM session with tracing enabled.
func Init(driverName, databaseURI string) (*sql.DB, *gorm.DB, error) {
	wrapMsg := "unable to establish the database connection"

	// Establish the connection, retrying until the database is available.
	connector, err := dbutil.NewDefaultConnector("1m")
	if err != nil {
		return nil, nil, errors.Wrap(err, wrapMsg)
	}
	conn, err := connector.Connect(driverName, databaseURI)
	if err != nil {
		return nil, nil, errors.Wrap(err, wrapMsg)
	}

	// Wrap the connection for GORM.
	gormdb, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	if err != nil {
		return nil, nil, errors.Wrap(err, wrapMsg)
	}
	if err = gormdb.Use(otelgorm.NewPlugin()); err != nil {
		return nil, nil, errors.Wrap(err, wrapMsg)
	}

	return conn, gormdb, nil
}
