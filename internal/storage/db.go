package storage

import (
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"tour-booking/internal/logger"
)

// ErrCapacityExceeded is returned when a checked booking insert would push
// the date's guest total past the configured daily capacity.
var ErrCapacityExceeded = errors.New("daily booking capacity exceeded")

// DB is the persistence gateway. Point lookups report absence as
// (nil, nil); only infrastructure failures surface as errors.
type DB struct {
	Bun *bun.DB
	Log *logger.Logger
}

func New(bunDB *bun.DB, log *logger.Logger) *DB {
	return &DB{Bun: bunDB, Log: log}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
