package inventory

import (
	"fmt"
	"strings"
)

const (
	skuPartStemLen = 8
	skuCodeStemLen = 4
)

// BuildSKU genera un SKU determinista a partir del número de parte y el
// código del item (servicio de dominio). Mismo input, mismo SKU; seq > 1
// añade un sufijo numérico para resolver colisiones.
//
//	BuildSKU("FLT-0452", "BOS", 1) -> "FLT0452-BOS"
//	BuildSKU("FLT-0452", "BOS", 2) -> "FLT0452-BOS-2"
func BuildSKU(partNumber, code string, seq int) string {
	part := stem(partNumber, skuPartStemLen)
	cd := stem(code, skuCodeStemLen)
	if part == "" {
		part = "ITEM"
	}
	sku := part
	if cd != "" {
		sku += "-" + cd
	}
	if seq > 1 {
		sku += fmt.Sprintf("-%d", seq)
	}
	return sku
}

// stem deja solo alfanuméricos en mayúscula, truncado a n caracteres.
func stem(s string, n int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() >= n {
				break
			}
		}
	}
	return b.String()
}
