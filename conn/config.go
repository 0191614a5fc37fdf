package conn

import (
	"fmt"
	"time"
)

// Config is a database connection configuration.
type Config struct {
	Host           string            `json:"host" yaml:"host"`
	Port           int               `json:"port" yaml:"port"`
	Database       string            `json:"database" yaml:"database"`
	Username       string            `json:"username" yaml:"username"`
	Password       string            `json:"password" yaml:"password"`
	SSLMode        string            `json:"ssl_mode" yaml:"ssl_mode"`
	Params         map[string]string `json:"params" yaml:"params"`
	Pool           PoolConfig        `json:"pool" yaml:"pool"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty"`

	// QueryCacheSize and StmtCacheSize bound the session caches;
	// zero means the defaults below.
	QueryCacheSize int `json:"query_cache_size" yaml:"query_cache_size"`
	StmtCacheSize  int `json:"stmt_cache_size" yaml:"stmt_cache_size"`
}

// PoolConfig bounds the connection pool.
type PoolConfig struct {
	MaxOpen     int           `json:"max_open" yaml:"max_open"`
	MaxIdle     int           `json:"max_idle" yaml:"max_idle"`
	MaxLifetime time.Duration `json:"max_lifetime" yaml:"max_lifetime"`
	MaxIdleTime time.Duration `json:"max_idle_time" yaml:"max_idle_time"`
}

// RetryConfig bounds connect-time retries.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay"`
}

const (
	defaultQueryCacheSize = 1024
	defaultStmtCacheSize  = 256
)

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("conn: host is required")
	}
	if c.Database == "" {
		return fmt.Errorf("conn: database is required")
	}
	if c.Pool.MaxIdle > c.Pool.MaxOpen && c.Pool.MaxOpen > 0 {
		return fmt.Errorf("conn: max_idle (%d) exceeds max_open (%d)", c.Pool.MaxIdle, c.Pool.MaxOpen)
	}
	return nil
}

// withDefaults fills in unset pool and cache values.
func (c Config) withDefaults() Config {
	if c.Pool.MaxOpen <= 0 {
		c.Pool.MaxOpen = 10
	}
	if c.Pool.MaxIdle < 0 {
		c.Pool.MaxIdle = 5
	}
	if c.Pool.MaxLifetime == 0 {
		c.Pool.MaxLifetime = time.Hour
	}
	if c.Pool.MaxIdleTime == 0 {
		c.Pool.MaxIdleTime = 30 * time.Minute
	}
	if c.QueryCacheSize <= 0 {
		c.QueryCacheSize = defaultQueryCacheSize
	}
	if c.StmtCacheSize <= 0 {
		c.StmtCacheSize = defaultStmtCacheSize
	}
	return c
}
