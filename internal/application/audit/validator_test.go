package audit_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/auditoria-fiscal/internal/application/audit"
	"github.com/jhoicas/auditoria-fiscal/internal/domain"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/ledger"
)

var spanishColumns = []string{"Fecha", "Folio", "Tipo", "Total", "Impuesto"}

func row(fecha any, folio, tipo string, total, impuesto any) audit.Row {
	return audit.Row{"Fecha": fecha, "Folio": folio, "Tipo": tipo, "Total": total, "Impuesto": impuesto}
}

func newValidator() *audit.Validator {
	return audit.NewValidator(ledger.DefaultTaxRule())
}

func sequenceVerdicts(res *audit.Result) []ledger.SequenceVerdict {
	out := make([]ledger.SequenceVerdict, len(res.Records))
	for i, r := range res.Records {
		out[i] = r.SequenceVerdict
	}
	return out
}

func TestValidate_FlujoCompleto(t *testing.T) {
	table := audit.Table{
		Columns: spanishColumns,
		Rows: []audit.Row{
			row("2024-01-01", "F1", "A", "119", "19"),
			row("2024-01-02", "F2", "A", "119", "19"),
			row("2024-01-03", "F2", "A", "119", "19"),
			row("2024-01-04", "F5", "A", "119", "19"),
		},
	}

	res, err := newValidator().Validate(table)
	require.NoError(t, err)
	require.Len(t, res.Records, 4)

	assert.Equal(t, []ledger.SequenceVerdict{
		ledger.SequenceStart, ledger.SequenceOK, ledger.SequenceDuplicate, ledger.SequenceJump,
	}, sequenceVerdicts(res))

	tokens := make([]int64, 0, 4)
	for _, r := range res.Records {
		tokens = append(tokens, r.FolioToken)
		assert.True(t, decimal.NewFromInt(100).Equal(r.Base), "base fila %d", r.RowNumber)
		assert.Equal(t, ledger.TaxOK, r.TaxVerdict)
		assert.Empty(t, r.Warnings)
	}
	assert.Equal(t, []int64{1, 2, 2, 5}, tokens)

	require.NotNil(t, res.Records[3].SequenceDelta)
	assert.Equal(t, int64(3), *res.Records[3].SequenceDelta)
	assert.Nil(t, res.Records[0].SequenceDelta)

	assert.Equal(t, audit.Summary{RowCount: 4, Duplicates: 1, Jumps: 1}, res.Summary)
	assert.Equal(t, spanishColumns, res.Columns)
}

func TestValidate_ColumnasFaltantes(t *testing.T) {
	table := audit.Table{
		Columns: []string{"Fecha", "Folio", "Total"},
		Rows:    []audit.Row{{"Fecha": "2024-01-01", "Folio": "F1", "Total": "100"}},
	}

	res, err := newValidator().Validate(table)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var schemaErr *domain.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"Tipo", "Impuesto"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "Impuesto")
}

func TestValidate_EncabezadosSinTildesNiMayusculas(t *testing.T) {
	table := audit.Table{
		Columns: []string{"FECHA", " folio ", "Type", "TOTAL", "Impuésto"},
		Rows: []audit.Row{
			{"FECHA": "2024-01-01", " folio ": "SETT-7", "Type": "A", "TOTAL": 1190.0, "Impuésto": 190.0},
		},
	}

	res, err := newValidator().Validate(table)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, int64(7), res.Records[0].FolioToken)
	assert.Equal(t, ledger.TaxOK, res.Records[0].TaxVerdict)
	assert.Equal(t, "A", res.Records[0].Type)
}

func TestValidate_CoercionNoDetieneElLote(t *testing.T) {
	table := audit.Table{
		Columns: spanishColumns,
		Rows: []audit.Row{
			row("2024-01-01", "F1", "A", "abc", "19"),
			row("2024-01-02", "F2", "A", "100", ""),
			row("no es fecha", "F3", "A", 119, 19),
		},
	}

	res, err := newValidator().Validate(table)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	first := res.Records[0]
	assert.True(t, first.Total.IsZero())
	assert.True(t, decimal.NewFromInt(-19).Equal(first.Base))
	assert.Len(t, first.Warnings, 1)

	second := res.Records[1]
	assert.True(t, second.Tax.IsZero())
	assert.Empty(t, second.Warnings)
	assert.Equal(t, ledger.TaxCheck, second.TaxVerdict)

	// Fecha ilegible: va al final de su partición.
	last := res.Records[2]
	assert.Equal(t, 3, last.RowNumber)
	assert.Nil(t, last.Date)
	assert.Len(t, last.Warnings, 1)

	assert.Equal(t, 2, res.Summary.RowsWithWarnings)
	assert.Equal(t, 2, res.Summary.TaxChecks)
}

func TestValidate_DescartaFilasVacias(t *testing.T) {
	table := audit.Table{
		Columns: spanishColumns,
		Rows: []audit.Row{
			row("2024-01-01", "F1", "A", "119", "19"),
			row(nil, "", " ", nil, ""),
			row("2024-01-02", "F2", "A", "119", "19"),
		},
	}

	res, err := newValidator().Validate(table)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Records[0].RowNumber)
	assert.Equal(t, 3, res.Records[1].RowNumber)
	assert.Equal(t, ledger.SequenceOK, res.Records[1].SequenceVerdict)
}

func TestValidate_FechasNativasYDiaPrimero(t *testing.T) {
	table := audit.Table{
		Columns: spanishColumns,
		Rows: []audit.Row{
			row("03/01/2024", "F3", "A", "0", "0"),
			row(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), "F1", "A", "0", "0"),
			row("02/01/2024", "F2", "A", "0", "0"),
		},
	}

	res, err := newValidator().Validate(table)
	require.NoError(t, err)

	rows := make([]int, len(res.Records))
	for i, r := range res.Records {
		rows[i] = r.RowNumber
	}
	assert.Equal(t, []int{2, 3, 1}, rows)
	assert.Equal(t, []ledger.SequenceVerdict{ledger.SequenceStart, ledger.SequenceOK, ledger.SequenceOK}, sequenceVerdicts(res))
	require.NotNil(t, res.Records[1].Date)
	assert.Equal(t, time.January, res.Records[1].Date.Month())
	assert.Equal(t, 2, res.Records[1].Date.Day())
}

func TestValidate_TablaVacia(t *testing.T) {
	res, err := newValidator().Validate(audit.Table{Columns: spanishColumns})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, 0, res.Summary.RowCount)
}

// Re-validar la salida (solo columnas originales) produce los mismos veredictos.
func TestValidate_Idempotente(t *testing.T) {
	table := audit.Table{
		Columns: spanishColumns,
		Rows: []audit.Row{
			row("2024-01-04", "F5", "A", "119", "19"),
			row("2024-01-01", "B-10", "B", "200", "38"),
			row("2024-01-01", "F1", "A", "119", "25"),
			row("2024-01-02", "B-12", "B", "200", "38"),
			row("2024-01-02", "F2", "A", "119", "19"),
		},
	}
	v := newValidator()
	first, err := v.Validate(table)
	require.NoError(t, err)

	again := audit.Table{Columns: first.Columns}
	for _, r := range first.Records {
		again.Rows = append(again.Rows, r.Values)
	}
	second, err := v.Validate(again)
	require.NoError(t, err)
	require.Len(t, second.Records, len(first.Records))

	for i := range first.Records {
		assert.Equal(t, first.Records[i].SequenceVerdict, second.Records[i].SequenceVerdict)
		assert.Equal(t, first.Records[i].TaxVerdict, second.Records[i].TaxVerdict)
		assert.Equal(t, first.Records[i].Values, second.Records[i].Values)
	}
}

// ── Caso de uso ───────────────────────────────────────────────────────────────

type stubReader struct {
	table audit.Table
	err   error
}

func (s stubReader) ReadTable(context.Context, string, io.Reader) (audit.Table, error) {
	return s.table, s.err
}

type stubWriter struct{ written *audit.Result }

func (s *stubWriter) WriteLedger(w io.Writer, result *audit.Result) error {
	s.written = result
	_, err := io.WriteString(w, "ok")
	return err
}

type countingMetrics struct{ calls int }

func (c *countingMetrics) ObserveLedger(*audit.Result) { c.calls++ }

func TestLedgerUseCase_ExportFile(t *testing.T) {
	reader := stubReader{table: audit.Table{
		Columns: spanishColumns,
		Rows:    []audit.Row{row("2024-01-01", "F1", "A", "119", "19")},
	}}
	writer := &stubWriter{}
	metrics := &countingMetrics{}
	uc := audit.NewLedgerUseCase(reader, writer, newValidator(), metrics)

	var out strings.Builder
	res, err := uc.ExportFile(context.Background(), "libro.xlsx", strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Same(t, res, writer.written)
	assert.Equal(t, "ok", out.String())
	assert.Equal(t, 1, metrics.calls)
}

func TestLedgerUseCase_ErrorDeLectura(t *testing.T) {
	uc := audit.NewLedgerUseCase(stubReader{err: domain.ErrInvalidInput}, &stubWriter{}, newValidator(), nil)

	_, err := uc.ValidateFile(context.Background(), "libro.xls", strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "libro.xls")
}
