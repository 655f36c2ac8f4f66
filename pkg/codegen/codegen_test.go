package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		existing []string
		want     string
	}{
		{"empty store", Order, nil, "OC-0001"},
		{"sequential", Order, []string{"OC-0001", "OC-0002"}, "OC-0003"},
		{"gaps use the maximum", Order, []string{"OC-0001", "OC-0007", "OC-0003"}, "OC-0008"},
		{"foreign and malformed codes are skipped", Order, []string{"OC-12", "BL-0040", "OC-00A1", "", "OC-0005x", "OC-0002"}, "OC-0003"},
		{"grows past four digits", Order, []string{"OC-9999"}, "OC-10000"},
		{"longer suffixes keep counting", Order, []string{"OC-10000", "OC-9999"}, "OC-10001"},
		{"receipts", Receipt, []string{"BL-0001", "OC-0009"}, "BL-0002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Next(tt.existing))
		})
	}
}

func TestNextIsStrictlyIncreasing(t *testing.T) {
	var codes []string
	prev := 0
	for i := 0; i < 50; i++ {
		code := Order.Next(codes)
		n, ok := Order.Suffix(code)
		assert.True(t, ok)
		assert.Greater(t, n, prev)
		prev = n
		codes = append(codes, code)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Order.Valid("OC-0001"))
	assert.True(t, Order.Valid("OC-123456"))
	assert.False(t, Order.Valid("OC-001"))
	assert.False(t, Order.Valid("oc-0001"))
	assert.False(t, Order.Valid("BL-0001"))
	assert.False(t, Order.Valid(" OC-0001"))
	assert.True(t, Receipt.Valid("BL-0042"))
}

func TestSuffixOverflow(t *testing.T) {
	_, ok := Order.Suffix("OC-99999999999999999999999")
	assert.False(t, ok)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "BL-0042", Receipt.Format(42))
	assert.Equal(t, "OC-12345", Order.Format(12345))
	assert.Equal(t, "OC-%", Order.LikePattern())
}
