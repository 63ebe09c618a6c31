package ledger

import "math"

// ExtractFolioToken concatena, en orden de aparición, todos los grupos de dígitos del folio
// y devuelve el entero resultante: "SETT-123" -> 123, "A1B2" -> 12, "" -> 0.
//
// Es una heurística: folios distintos pueden colisionar en el mismo token.
// Si el número no cabe en int64 se satura en math.MaxInt64.
func ExtractFolioToken(folio string) int64 {
	var n int64
	for i := 0; i < len(folio); i++ {
		c := folio[i]
		if c < '0' || c > '9' {
			continue
		}
		d := int64(c - '0')
		if n > (math.MaxInt64-d)/10 {
			return math.MaxInt64
		}
		n = n*10 + d
	}
	return n
}
