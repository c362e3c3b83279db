package model

import "time"

// DataSource is the connection descriptor of one storage engine.
type DataSource struct {
	Name    string
	Engine  string
	Server  string
	Port    int
	Schema  string
	User    string
	Passwd  string
	File    string
	DSN     string // used verbatim when set
	Options map[string]string
	Pool    PoolConfig
}

// PoolConfig sizes the shared connection pool of a data source.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// WithDefaults fills unset pool settings.
func (p PoolConfig) WithDefaults() PoolConfig {
	if p.MaxOpenConns <= 0 {
		p.MaxOpenConns = 25
	}
	if p.MaxIdleConns <= 0 {
		p.MaxIdleConns = 5
	}
	if p.ConnMaxLifetime <= 0 {
		p.ConnMaxLifetime = 300 * time.Second
	}
	if p.ConnMaxIdleTime <= 0 {
		p.ConnMaxIdleTime = 60 * time.Second
	}
	return p
}
