package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/auditoria-fiscal/internal/application/audit"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/ledger"
	"github.com/jhoicas/auditoria-fiscal/internal/infrastructure/spreadsheet"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger FILE",
	Short: "Valida un libro de facturas (xlsx o csv)",
	Long: `Valida un libro con las columnas Fecha, Folio, Tipo, Total e Impuesto (o date,
folio, type, total, tax). Calcula la base gravable, verifica la tasa de IVA y
detecta duplicados, saltos y anomalías en los consecutivos por tipo.`,
	Example: `  # Resumen en la terminal
  audit ledger libro.xlsx

  # Consolidado con columnas Base, Folio_Num, Verif, Diff y COMCON
  audit ledger libro.csv --out libro_validado.xlsx

  # Filas anotadas en JSON
  audit ledger libro.xlsx --json > resultado.json`,
	Args: cobra.ExactArgs(1),
	RunE: runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)

	ledgerCmd.Flags().StringP("out", "o", "", "ruta del consolidado xlsx a generar")
	ledgerCmd.Flags().Bool("json", false, "imprime las filas anotadas en JSON")
}

func runLedger(cmd *cobra.Command, args []string) error {
	path := args[0]
	out, _ := cmd.Flags().GetString("out")
	asJSON, _ := cmd.Flags().GetBool("json")

	uc := audit.NewLedgerUseCase(
		spreadsheet.NewTableReader(0),
		spreadsheet.NewLedgerWriter(),
		audit.NewValidator(ledger.TaxRule{Rate: cfg.Audit.TaxRate, Tolerance: cfg.Audit.TaxTolerance}),
		nil,
	)

	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir libro: %w", err)
	}
	defer in.Close()

	var result *audit.Result
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("crear %s: %w", out, err)
		}
		result, err = uc.ExportFile(cmd.Context(), path, in, f)
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	} else if result, err = uc.ValidateFile(cmd.Context(), path, in); err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(audit.ToLedgerResponse(result))
	}
	printSummary(cmd.OutOrStdout(), path, result)
	if out != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Consolidado: %s\n", out)
	}
	return nil
}

func printSummary(w io.Writer, path string, result *audit.Result) {
	s := result.Summary
	fmt.Fprintf(w, "Libro:            %s\n", path)
	fmt.Fprintf(w, "Filas:            %d\n", s.RowCount)
	fmt.Fprintf(w, "Con advertencias: %d\n", s.RowsWithWarnings)
	fmt.Fprintf(w, "IVA a revisar:    %d\n", s.TaxChecks)
	fmt.Fprintf(w, "Duplicados:       %d\n", s.Duplicates)
	fmt.Fprintf(w, "Saltos:           %d\n", s.Jumps)
	fmt.Fprintf(w, "Anomalías:        %d\n", s.Anomalies)
	for _, rec := range result.Records {
		if rec.TaxVerdict == ledger.TaxOK && (rec.SequenceVerdict == ledger.SequenceOK || rec.SequenceVerdict == ledger.SequenceStart) {
			continue
		}
		fmt.Fprintf(w, "  fila %d  %s %s  Verif=%s COMCON=%s\n", rec.RowNumber, rec.Type, rec.Folio, rec.TaxVerdict, rec.SequenceVerdict)
	}
}
