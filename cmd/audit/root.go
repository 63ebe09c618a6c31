package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/auditoria-fiscal/pkg/config"
	"github.com/jhoicas/auditoria-fiscal/pkg/logger"
)

var version = "1.0.0"

// cfg se carga en PersistentPreRunE antes de cada subcomando.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "audit",
	Short: "Auditoría de facturas electrónicas DIAN y libros de facturación",
	Long: `audit valida libros tabulares de facturas (xlsx/csv): verificación de IVA y
control de consecutivos por tipo. También extrae documentos XML DIAN (UBL 2.1),
los importa a PostgreSQL y administra el esquema.

La configuración se lee de variables de entorno (APP_ENV, LOG_LEVEL, DATABASE_URL,
AUDIT_TAX_RATE, AUDIT_TAX_TOLERANCE, JWT_SECRET...) o de un archivo .env.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		level := cfg.App.LogLevel
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = "debug"
		}
		// Logs a stderr: stdout queda libre para la salida --json.
		logger.New(logger.Config{Env: "development", Level: level, Output: os.Stderr})
		return nil
	},
}

// Execute ejecuta el comando raíz y termina el proceso con código 1 ante error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func reportError(w io.Writer, err error) {
	l := logger.WithComponent("cli")
	l.Error().Err(err).Msg("comando fallido")
	fmt.Fprintf(w, "Error: %v\n", err)
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "logs en nivel debug")
}
