package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "ana@example.com", false},
		{"valid plus", "ana+orders@shop.example.org", false},
		{"empty", "", true},
		{"no at", "ana.example.com", true},
		{"no tld", "ana@example", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, Email(tt.email) != nil)
		})
	}
}

func TestPassword(t *testing.T) {
	assert.Error(t, Password("short"))
	assert.NoError(t, Password("longenough"))
	assert.Error(t, Password(strings.Repeat("x", 73)))
}

func TestName(t *testing.T) {
	assert.NoError(t, Name("Ana Costa"))
	assert.Error(t, Name("   "))
	assert.Error(t, Name("bad\x00name"))
	assert.Error(t, Name(strings.Repeat("n", 256)))
	assert.ErrorContains(t, ProductName(""), "product name")
}

func TestAddress(t *testing.T) {
	assert.NoError(t, Address("221B Baker Street"))
	assert.Error(t, Address(""))
	assert.Error(t, Address(" \t "))
	assert.Error(t, Address(strings.Repeat("a", 1025)))
}

func TestPositiveIDAndQuantity(t *testing.T) {
	assert.NoError(t, PositiveID("product_id", 1))
	assert.Error(t, PositiveID("product_id", 0))
	assert.Error(t, PositiveID("product_id", -4))
	assert.NoError(t, Quantity(1))
	assert.Error(t, Quantity(0))
	assert.Error(t, Quantity(-1))
	assert.NoError(t, Quantity(MaxQuantity))
	assert.Error(t, Quantity(MaxQuantity+1))
	assert.Error(t, Quantity(3_000_000_000))
}
