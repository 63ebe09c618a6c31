package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/auditoria-fiscal/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Administra el esquema de PostgreSQL (migraciones embebidas)",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica las migraciones pendientes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, (*postgres.Migrator).Up)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revierte todas las migraciones (borra las tablas)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, (*postgres.Migrator).Down)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}

func withMigrator(cmd *cobra.Command, run func(*postgres.Migrator) error) error {
	pool, err := postgres.NewPool(cmd.Context(), cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	m, err := postgres.NewMigrator(pool)
	if err != nil {
		return err
	}
	defer m.Close()
	return run(m)
}
