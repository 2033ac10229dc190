package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h, err := NewHasher(MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("correct horse battery")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.NotContains(t, hash, "correct horse battery")
	assert.True(t, h.Verify("correct horse battery", hash))
	assert.False(t, h.Verify("wrong horse battery", hash))
	assert.False(t, h.Verify("correct horse battery", "not-a-hash"))
}

func TestHashEmpty(t *testing.T) {
	h, err := NewHasher(MinCost)
	require.NoError(t, err)
	_, err = h.Hash("")
	assert.Error(t, err)
}

func TestNewHasherCostRange(t *testing.T) {
	tests := []struct {
		name    string
		cost    int
		wantErr bool
	}{
		{"min", MinCost, false},
		{"default", DefaultCost, false},
		{"below min", MinCost - 1, true},
		{"above max", MaxCost + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHasher(tt.cost)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestDummyHashIsWellFormed(t *testing.T) {
	cost, err := bcrypt.Cost([]byte(dummyHash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)

	h, err := NewHasher(MinCost)
	require.NoError(t, err)
	h.VerifyDummy("anything")
	assert.False(t, h.Verify("anything", dummyHash))
}
