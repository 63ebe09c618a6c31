package audit

import (
	"time"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
)

// ToLedgerResponse convierte el resultado a la respuesta JSON. Las fechas en Values se
// serializan como YYYY-MM-DD.
func ToLedgerResponse(result *Result) dto.LedgerValidationResponse {
	s := result.Summary
	out := dto.LedgerValidationResponse{
		Summary: dto.LedgerSummaryResponse{
			RowCount:         s.RowCount,
			RowsWithWarnings: s.RowsWithWarnings,
			TaxChecks:        s.TaxChecks,
			Duplicates:       s.Duplicates,
			Jumps:            s.Jumps,
			Anomalies:        s.Anomalies,
		},
		Data: make([]dto.LedgerRowResponse, 0, len(result.Records)),
	}
	for _, rec := range result.Records {
		values := make(map[string]any, len(rec.Values))
		for k, v := range rec.Values {
			if t, ok := v.(time.Time); ok {
				v = t.Format("2006-01-02")
			}
			values[k] = v
		}
		row := dto.LedgerRowResponse{
			RowNumber:       rec.RowNumber,
			Values:          values,
			Folio:           rec.Folio,
			Type:            rec.Type,
			Total:           rec.Total,
			Tax:             rec.Tax,
			Base:            rec.Base,
			FolioToken:      rec.FolioToken,
			TaxRatio:        rec.TaxRatio,
			TaxVerdict:      rec.TaxVerdict.String(),
			SequenceDelta:   rec.SequenceDelta,
			SequenceVerdict: rec.SequenceVerdict.String(),
			Warnings:        rec.Warnings,
		}
		if rec.Date != nil {
			row.Date = rec.Date.Format("2006-01-02")
		}
		out.Data = append(out.Data, row)
	}
	return out
}
