package dto

import "github.com/shopspring/decimal"

// LedgerRowResponse fila del libro con los campos derivados de la validación.
type LedgerRowResponse struct {
	RowNumber       int              `json:"row_number"`
	Values          map[string]any   `json:"values"`
	Date            string           `json:"date,omitempty"`
	Folio           string           `json:"folio"`
	Type            string           `json:"type"`
	Total           decimal.Decimal  `json:"total"`
	Tax             decimal.Decimal  `json:"tax"`
	Base            decimal.Decimal  `json:"base"`
	FolioToken      int64            `json:"folio_token"`
	TaxRatio        *decimal.Decimal `json:"tax_ratio"`
	TaxVerdict      string           `json:"tax_verdict"`
	SequenceDelta   *int64           `json:"sequence_delta"`
	SequenceVerdict string           `json:"sequence_verdict"`
	Warnings        []string         `json:"warnings,omitempty"`
}

// LedgerSummaryResponse totales del lote.
type LedgerSummaryResponse struct {
	RowCount int `json:"row_count"`
	// RowsWithWarnings filas con algún valor no interpretable; se publica como error_count.
	RowsWithWarnings int `json:"error_count"`
	TaxChecks        int `json:"tax_checks"`
	Duplicates       int `json:"duplicates"`
	Jumps            int `json:"jumps"`
	Anomalies        int `json:"anomalies"`
}

// LedgerValidationResponse respuesta de POST /api/ledger/validate.
type LedgerValidationResponse struct {
	Summary LedgerSummaryResponse `json:"summary"`
	Data    []LedgerRowResponse   `json:"data"`
}
