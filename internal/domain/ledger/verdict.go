// Package ledger contiene las reglas de auditoría sobre libros tabulares de facturas:
// extracción del consecutivo numérico del folio, verificación de la tasa de IVA y
// control de consecutivos por tipo de documento.
package ledger

import "fmt"

// TaxVerdict resultado de la verificación de impuesto ("Verif").
type TaxVerdict uint8

const (
	TaxOK TaxVerdict = iota + 1
	TaxCheck
)

var taxVerdictNames = map[TaxVerdict]string{
	TaxOK:    "OK",
	TaxCheck: "CHECK",
}

func (v TaxVerdict) String() string {
	if s, ok := taxVerdictNames[v]; ok {
		return s
	}
	return fmt.Sprintf("TaxVerdict(%d)", uint8(v))
}

// MarshalText serializa el veredicto con su nombre (JSON, hojas de cálculo).
func (v TaxVerdict) MarshalText() ([]byte, error) {
	if _, ok := taxVerdictNames[v]; !ok {
		return nil, fmt.Errorf("ledger: veredicto de impuesto inválido %d", uint8(v))
	}
	return []byte(v.String()), nil
}

// SequenceVerdict resultado del control de consecutivos ("COMCON").
type SequenceVerdict uint8

const (
	SequenceStart SequenceVerdict = iota + 1
	SequenceOK
	SequenceDuplicate
	SequenceJump
	SequenceAnomaly
)

var sequenceVerdictNames = map[SequenceVerdict]string{
	SequenceStart:     "START",
	SequenceOK:        "OK",
	SequenceDuplicate: "DUPLICATE",
	SequenceJump:      "JUMP",
	SequenceAnomaly:   "ANOMALY",
}

func (v SequenceVerdict) String() string {
	if s, ok := sequenceVerdictNames[v]; ok {
		return s
	}
	return fmt.Sprintf("SequenceVerdict(%d)", uint8(v))
}

// MarshalText serializa el veredicto con su nombre.
func (v SequenceVerdict) MarshalText() ([]byte, error) {
	if _, ok := sequenceVerdictNames[v]; !ok {
		return nil, fmt.Errorf("ledger: veredicto de consecutivo inválido %d", uint8(v))
	}
	return []byte(v.String()), nil
}
