// Package metrics expone contadores Prometheus de importación de documentos y de
// veredictos de la validación de libros.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/auditoria-fiscal/internal/application/audit"
	"github.com/jhoicas/auditoria-fiscal/internal/application/invoicing"
)

// Nombres de métricas.
const (
	MetricImportDocumentsTotal = "audit_import_documents_total"
	MetricLedgerRowsTotal      = "audit_ledger_rows_total"
)

// Valores de la etiqueta "check" de MetricLedgerRowsTotal.
const (
	CheckTax      = "tax"
	CheckSequence = "sequence"
)

// Prometheus registro propio con los contadores de la aplicación.
// Implementa invoicing.Metrics y audit.Metrics.
type Prometheus struct {
	registry        *prometheus.Registry
	importDocuments *prometheus.CounterVec
	ledgerRows      *prometheus.CounterVec
}

var (
	_ invoicing.Metrics = (*Prometheus)(nil)
	_ audit.Metrics     = (*Prometheus)(nil)
)

// NewPrometheus crea el registro. withRuntime agrega los colectores de Go y del proceso.
func NewPrometheus(withRuntime bool) *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		importDocuments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricImportDocumentsTotal,
			Help: "Documentos XML procesados en cargas masivas, por estado.",
		}, []string{"status"}),
		ledgerRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricLedgerRowsTotal,
			Help: "Filas de libros validadas, por verificación y veredicto.",
		}, []string{"check", "verdict"}),
	}
	p.registry.MustRegister(p.importDocuments, p.ledgerRows)
	if withRuntime {
		p.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return p
}

// ObserveImport cuenta un documento con su estado (uploaded, skipped, error).
func (p *Prometheus) ObserveImport(status string) {
	p.importDocuments.WithLabelValues(status).Inc()
}

// ObserveLedger cuenta los veredictos de impuesto y consecutivo de cada fila.
func (p *Prometheus) ObserveLedger(result *audit.Result) {
	if result == nil {
		return
	}
	for _, rec := range result.Records {
		p.ledgerRows.WithLabelValues(CheckTax, rec.TaxVerdict.String()).Inc()
		p.ledgerRows.WithLabelValues(CheckSequence, rec.SequenceVerdict.String()).Inc()
	}
}

// Registry registro subyacente (tests, colectores adicionales).
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler endpoint de scraping en formato de exposición Prometheus.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
