package service

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"sync"
	"time"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"
)

const pingTimeout = 5 * time.Second

// DialectFor returns the dialect of a configured engine name.
func DialectFor(engine string) (Dialect, bool) {
	switch strings.ToLower(engine) {
	case "sqlite", "sqlite3":
		return &SQLiteDialect{}, true
	case "mysql", "mariadb":
		return &MySQLDialect{}, true
	case "postgres", "postgresql":
		return NewPostgresDialect(), true
	case "pgx":
		return NewPgxDialect(), true
	case "sqlserver", "mssql":
		return &SQLServerDialect{}, true
	}
	return nil, false
}

// Sources keeps one connection pool per data source and hands out
// per-request connections from it.
type Sources struct {
	mu    sync.Mutex
	pools map[string]*sql.DB
}

func NewSources() *Sources {
	return &Sources{pools: map[string]*sql.DB{}}
}

func (s *Sources) Open(ctx context.Context, ds model.DataSource) (Conn, error) {
	d, ok := DialectFor(ds.Engine)
	if !ok {
		return nil, apperr.UnsupportedSource("unsupported engine %q for data source %q", ds.Engine, ds.Name)
	}
	db, err := s.pool(ctx, ds, d)
	if err != nil {
		return nil, err
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "connecting to %q failed", ds.Name)
	}
	return newSQLConn(conn, d), nil
}

func (s *Sources) pool(ctx context.Context, ds model.DataSource, d Dialect) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.pools[ds.Name]; ok {
		return db, nil
	}

	dsn, err := d.BuildDSN(ds)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, apperr.Storage(err, "opening %q failed", ds.Name)
	}

	pc := ds.Pool.WithDefaults()
	db.SetMaxOpenConns(pc.MaxOpenConns)
	db.SetMaxIdleConns(pc.MaxIdleConns)
	db.SetConnMaxLifetime(pc.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pc.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, apperr.Storage(err, "connecting to %q failed", ds.Name)
	}

	log.Printf("Opened %s pool for data source %q", d.Engine(), ds.Name)
	s.pools[ds.Name] = db
	return db, nil
}

func (s *Sources) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, db := range s.pools {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.pools, name)
	}
	return firstErr
}
