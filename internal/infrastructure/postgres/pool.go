package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/auditoria-fiscal/pkg/config"
)

const (
	defaultMaxConns = 10
	applicationName = "auditoria-fiscal"
)

// NewPool abre el pool de PostgreSQL (DATABASE_URL o DB_HOST/DB_PORT/...) y verifica la
// conexión con Ping. Todas las conexiones registran el codec NUMERIC <-> decimal.Decimal.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName
	poolConfig.ConnConfig.DialFunc = dialPreferIPv4

	poolConfig.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	log.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Str("database", poolConfig.ConnConfig.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("conexión a PostgreSQL establecida")
	return pool, nil
}

// dialPreferIPv4 marca por IPv4 cuando el host tiene una dirección A; si no, usa la
// resolución normal. Los contenedores sin IPv6 fallan con proveedores que publican AAAA.
func dialPreferIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	if ip, err := lookupIPv4(ctx, host); err == nil {
		return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
	}
	return d.DialContext(ctx, network, addr)
}

func lookupIPv4(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", fmt.Errorf("%s no es IPv4", host)
		}
		return host, nil
	}
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	if len(ips) == 0 {
		return "", fmt.Errorf("%s sin dirección IPv4", host)
	}
	return ips[0].String(), nil
}
