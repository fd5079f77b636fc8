package items

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeCode(t *testing.T) {
	assert.Equal(t, "LA", TypeCode("laptop"))
	assert.Equal(t, "MO", TypeCode("Monitor"))
	assert.Equal(t, "A", TypeCode("a"))
	assert.Equal(t, "", TypeCode(""))
	// multibyte runes count as one
	assert.Equal(t, "ÉC", TypeCode("écran"))
}

func TestSerialCodePadding(t *testing.T) {
	assert.Equal(t, "001", SerialCode(1))
	assert.Equal(t, "042", SerialCode(42))
	assert.Equal(t, "999", SerialCode(999))
	assert.Equal(t, "1000", SerialCode(1000))
	assert.Equal(t, "12345", SerialCode(12345))
}

func TestGenerateCode(t *testing.T) {
	typeCode, serialCode, barcode := GenerateCode("laptop", 7)
	assert.Equal(t, "LA", typeCode)
	assert.Equal(t, "007", serialCode)
	assert.Equal(t, "LA007", barcode)

	_, _, big := GenerateCode("laptop", 1001)
	assert.Equal(t, "LA1001", big)
}
