package audit_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/auditoria-fiscal/internal/application/audit"
)

func TestToLedgerResponse(t *testing.T) {
	table := audit.Table{
		Columns: spanishColumns,
		Rows: []audit.Row{
			row(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "F2", "A", "119", "19"),
			row("2024-01-01", "F1", "A", "100", "50"),
		},
	}
	res, err := newValidator().Validate(table)
	require.NoError(t, err)

	out := audit.ToLedgerResponse(res)

	assert.Equal(t, 2, out.Summary.RowCount)
	assert.Equal(t, 1, out.Summary.TaxChecks)
	require.Len(t, out.Data, 2)
	assert.Equal(t, 2, out.Data[0].RowNumber, "orden de evaluación, no de la fuente")
	assert.Equal(t, "START", out.Data[0].SequenceVerdict)
	assert.Equal(t, "CHECK", out.Data[0].TaxVerdict)
	assert.Nil(t, out.Data[0].SequenceDelta)
	assert.Equal(t, "2024-01-02", out.Data[1].Values["Fecha"])

	body, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"tax_verdict":"OK"`)
	assert.Contains(t, string(body), `"sequence_delta":1`)
	assert.Contains(t, string(body), `"error_count":0`, "el conteo de filas con advertencias se publica como error_count")
}
