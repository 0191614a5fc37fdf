package conn

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/Konsultn-Engineering/querykit/dialect"
)

// ConnectMySQL opens a database/sql pool over the mysql driver, detects
// the server version and returns a session carrying the MySQL profile.
func ConnectMySQL(ctx context.Context, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Database
	mc.ParseTime = true
	if len(cfg.Params) > 0 {
		mc.Params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			mc.Params[k] = v
		}
	}

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("conn: mysql config: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(cfg.Pool.MaxOpen)
	db.SetMaxIdleConns(cfg.Pool.MaxIdle)
	db.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	db.SetConnMaxIdleTime(cfg.Pool.MaxIdleTime)

	ping := func(ctx context.Context) error { return db.PingContext(ctx) }
	if cfg.Retry != nil {
		err = retryConnect(ctx, cfg.Retry, ping)
	} else {
		err = ping(ctx)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("conn: connect mysql: %w", err)
	}

	major, minor, err := mysqlVersion(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return newSession(db, dialect.MySQL(major, minor), cfg), nil
}

// mysqlVersion parses SELECT VERSION(), e.g. "8.0.36-log" -> (8, 0).
func mysqlVersion(ctx context.Context, db *sql.DB) (major, minor int, err error) {
	var version string
	if err = db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		return 0, 0, fmt.Errorf("conn: read mysql version: %w", err)
	}
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("conn: bad mysql version %q", version)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("conn: bad mysql version %q", version)
	}
	minor, _ = strconv.Atoi(strings.TrimFunc(parts[1], func(r rune) bool { return r < '0' || r > '9' }))
	return major, minor, nil
}
