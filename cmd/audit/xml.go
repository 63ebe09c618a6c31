package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
	"github.com/jhoicas/auditoria-fiscal/internal/application/invoicing"
	"github.com/jhoicas/auditoria-fiscal/internal/infrastructure/postgres"
	"github.com/jhoicas/auditoria-fiscal/internal/infrastructure/ubl"
	"github.com/jhoicas/auditoria-fiscal/pkg/logger"
)

var xmlCmd = &cobra.Command{
	Use:   "xml FILES...",
	Short: "Extrae documentos XML DIAN sin tocar la base de datos",
	Example: `  audit xml facturas/*.xml
  audit xml fe-001.xml --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runXML,
}

var importCmd = &cobra.Command{
	Use:   "import FILES...",
	Short: "Importa documentos XML DIAN a PostgreSQL (idempotente por CUFE)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(xmlCmd, importCmd)

	xmlCmd.Flags().Bool("json", false, "imprime los documentos extraídos en JSON")
	importCmd.Flags().Bool("json", false, "imprime el reporte de importación en JSON")
}

func runXML(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	extractor := ubl.NewExtractor(logger.WithComponent("extractor"))

	docs := make([]dto.InvoiceResponse, 0, len(args))
	failed := 0
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("leer %s: %w", path, err)
		}
		inv, err := extractor.Extract(content)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", filepath.Base(path), err)
			continue
		}
		if asJSON {
			docs = append(docs, invoicing.ToInvoiceResponse(inv, true))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\ttotal=%s impuestos=%s ítems=%d\n",
			filepath.Base(path), inv.DocumentType, inv.DisplayNumberOrShortID(), inv.IssuerName,
			inv.TotalAmount.StringFixed(2), inv.TaxAmount.StringFixed(2), len(inv.Lines))
		for _, w := range inv.Warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "\tadvertencia: %s\n", w)
		}
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(docs); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d de %d documentos descartados", failed, len(args))
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	files := make([]dto.UploadedFile, 0, len(args))
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("leer %s: %w", path, err)
		}
		files = append(files, dto.UploadedFile{Filename: filepath.Base(path), Content: content})
	}

	pool, err := postgres.NewPool(cmd.Context(), cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	uc := invoicing.NewImportUseCase(
		postgres.NewTxRunner(pool),
		ubl.NewExtractor(logger.WithComponent("extractor")),
		nil,
		0,
	)
	report, err := uc.ImportDocuments(cmd.Context(), files)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	for _, d := range report.Details {
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s: %s\n", d.Status, d.Filename, d.Message)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "guardadas=%d omitidas=%d errores=%d\n", report.Uploaded, report.Skipped, report.Errors)
	return nil
}
