package dian

import (
	"fmt"
	"unicode"
)

// pesos DIAN para el dígito de verificación (módulo 11), aplicados de derecha a izquierda.
var nitWeights = [15]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// ComputeNITVerificationDigit calcula el dígito de verificación de un NIT sin DV.
// Acepta puntos, espacios o guiones ("900.123.456").
func ComputeNITVerificationDigit(nit string) (byte, error) {
	digits := extractDigits(nit)
	if len(digits) == 0 {
		return 0, fmt.Errorf("dian: NIT sin dígitos")
	}
	if len(digits) > len(nitWeights) {
		return 0, fmt.Errorf("dian: NIT demasiado largo (%d dígitos)", len(digits))
	}
	var sum int
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		sum += d * nitWeights[i]
	}
	remainder := sum % 11
	if remainder == 0 || remainder == 1 {
		return byte('0' + remainder), nil
	}
	return byte('0' + (11 - remainder)), nil
}

// VerifyNIT compara el dígito de verificación declarado (schemeID en el XML) con el calculado.
func VerifyNIT(nit, dv string) error {
	dvDigits := extractDigits(dv)
	if len(dvDigits) != 1 {
		return fmt.Errorf("dian: dígito de verificación inválido %q", dv)
	}
	expected, err := ComputeNITVerificationDigit(nit)
	if err != nil {
		return err
	}
	if dvDigits[0] != expected {
		return fmt.Errorf("dian: dígito de verificación del NIT %s inválido: esperado %c, recibido %c", nit, expected, dvDigits[0])
	}
	return nil
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return out
}
