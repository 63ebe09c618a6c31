package ledger

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// SequenceItem clave de ordenamiento de un registro para el control de consecutivos.
// Date nil significa fecha desconocida (no parseable).
type SequenceItem struct {
	Type  string
	Date  *time.Time
	Token int64
}

// SequenceResult diferencia con el registro anterior del mismo tipo y su veredicto.
// Delta es nil para el primer registro de cada tipo.
type SequenceResult struct {
	Delta   *int64
	Verdict SequenceVerdict
}

// EvaluateSequence particiona por Type, ordena cada partición por (Date, Token) de forma
// estable y compara cada token con el anterior de la misma partición.
//
// Las fechas desconocidas van al final de su partición. Las particiones se recorren en
// orden ascendente de Type.
//
// Devuelve results alineado con items (results[i] corresponde a items[i]) y order, los
// índices de items en orden de evaluación.
//
// Los registros sin Type no forman partición: cada uno recibe START sin delta.
//
// Caso conocido: ANOMALY (delta negativo) sólo aparece cuando folios distintos colisionan
// o cuando una fecha posterior trae un token menor; no se oculta.
func EvaluateSequence(items []SequenceItem) (results []SequenceResult, order []int) {
	order = make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return compareItems(items[a], items[b])
	})

	results = make([]SequenceResult, len(items))
	for pos, idx := range order {
		if pos == 0 || isUntyped(items[idx]) || items[order[pos-1]].Type != items[idx].Type {
			results[idx] = SequenceResult{Verdict: SequenceStart}
			continue
		}
		delta := items[idx].Token - items[order[pos-1]].Token
		results[idx] = SequenceResult{Delta: &delta, Verdict: ClassifyDelta(delta)}
	}
	return results, order
}

// ClassifyDelta traduce la diferencia entre tokens consecutivos a un veredicto.
func ClassifyDelta(delta int64) SequenceVerdict {
	switch {
	case delta == 1:
		return SequenceOK
	case delta == 0:
		return SequenceDuplicate
	case delta > 1:
		return SequenceJump
	default:
		return SequenceAnomaly
	}
}

func isUntyped(it SequenceItem) bool {
	return strings.TrimSpace(it.Type) == ""
}

func compareItems(a, b SequenceItem) int {
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	if c := compareDates(a.Date, b.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.Token, b.Token)
}

// compareDates: fechas conocidas primero; nil al final.
func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
