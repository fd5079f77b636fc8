package items

import (
	"fmt"
	"strings"
)

// TypeCode derives the barcode prefix from a type name: the first two runes
// of the uppercased name. Shorter names yield shorter prefixes, no padding.
func TypeCode(typeName string) string {
	upper := []rune(strings.ToUpper(typeName))
	if len(upper) > 2 {
		upper = upper[:2]
	}
	return string(upper)
}

// SerialCode renders the per-type ordinal zero-padded to three digits.
// Ordinals of 1000 and above pass through unpadded.
func SerialCode(ordinal int) string {
	return fmt.Sprintf("%03d", ordinal)
}

// GenerateCode builds the full barcode for the nth item of a type.
func GenerateCode(typeName string, ordinal int) (typeCode, serialCode, barcode string) {
	typeCode = TypeCode(typeName)
	serialCode = SerialCode(ordinal)
	return typeCode, serialCode, typeCode + serialCode
}
