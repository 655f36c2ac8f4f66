package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		net, tax, total string
	}{
		{"2000", "380.00", "2380.00"},
		{"0", "0.00", "0.00"},
		{"10.50", "2.00", "12.50"},
		{"99.99", "19.00", "118.99"},
		{"1", "0.19", "1.19"},
	}

	for _, tt := range tests {
		got := ComputeTotals(decimal.RequireFromString(tt.net))
		assert.Equal(t, tt.tax, got.Tax.StringFixed(2), tt.net)
		assert.Equal(t, tt.total, got.Total.StringFixed(2), tt.net)
		assert.True(t, got.Total.Equal(got.Net.Add(got.Tax)), tt.net)
	}
}

func TestReconcileNet(t *testing.T) {
	d := decimal.RequireFromString

	net, drifted := reconcileNet(d("2000"), d("2000"))
	assert.True(t, net.Equal(d("2000")))
	assert.False(t, drifted)

	net, drifted = reconcileNet(d("2000.01"), d("2000"))
	assert.True(t, net.Equal(d("2000.01")))
	assert.False(t, drifted)

	net, drifted = reconcileNet(d("2500"), d("2000"))
	assert.True(t, net.Equal(d("2000")))
	assert.True(t, drifted)
}
