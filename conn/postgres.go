package conn

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/Konsultn-Engineering/querykit/dialect"
)

// ConnectPostgres opens a pgx-backed pool, detects the server version and
// returns a session carrying the matching Postgres profile.
func ConnectPostgres(ctx context.Context, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	poolCfg, err := pgxpool.ParseConfig(postgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("conn: parse postgres dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime

	var pool *pgxpool.Pool
	connect := func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	}
	if cfg.Retry != nil {
		err = retryConnect(ctx, cfg.Retry, connect)
	} else {
		err = connect(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("conn: connect postgres: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	major, minor, err := postgresVersion(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return newSession(db, dialect.Postgres(major, minor), cfg), nil
}

// postgresVersion reads server_version_num, e.g. 150004 -> (15, 0).
func postgresVersion(ctx context.Context, db *sql.DB) (major, minor int, err error) {
	var num string
	if err = db.QueryRowContext(ctx, "SHOW server_version_num").Scan(&num); err != nil {
		return 0, 0, fmt.Errorf("conn: read postgres version: %w", err)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, 0, fmt.Errorf("conn: bad server_version_num %q", num)
	}
	return n / 10000, (n / 100) % 100, nil
}

func postgresDSN(cfg Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	for k, v := range cfg.Params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
