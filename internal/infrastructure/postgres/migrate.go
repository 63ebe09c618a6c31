package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator aplica el esquema embebido (migrations/*.sql) sobre el pool de la aplicación.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator prepara golang-migrate con el driver pgx/v5 sobre una conexión database/sql
// tomada del pool.
func NewMigrator(pool *pgxpool.Pool) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migraciones: fuente embebida: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)
	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return nil, fmt.Errorf("migraciones: driver pgx: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("migraciones: instancia: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up aplica las migraciones pendientes. Sin cambios no es error.
func (mg *Migrator) Up() error {
	err := mg.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("migraciones: esquema al día")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migraciones up: %w", err)
	}
	version, dirty, err := mg.m.Version()
	if err != nil {
		return fmt.Errorf("migraciones: versión: %w", err)
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migraciones aplicadas")
	return nil
}

// Down revierte todas las migraciones.
func (mg *Migrator) Down() error {
	err := mg.m.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("migraciones: nada que revertir")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migraciones down: %w", err)
	}
	log.Info().Msg("migraciones revertidas")
	return nil
}

// Close libera la fuente y la conexión de migración (el pool sigue abierto).
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return fmt.Errorf("migraciones: cerrar fuente: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migraciones: cerrar db: %w", dbErr)
	}
	return nil
}
