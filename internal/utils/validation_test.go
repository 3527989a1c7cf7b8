package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidAccountID(t *testing.T) {
	assert.True(t, IsValidAccountID("0.0.4859001"))
	assert.True(t, IsValidAccountID("1.2.3"))
	assert.False(t, IsValidAccountID(""))
	assert.False(t, IsValidAccountID("0.0"))
	assert.False(t, IsValidAccountID("0.0.x"))
	assert.False(t, IsValidAccountID("0.0.123.456"))
}

func TestIsValidSequenceNumber(t *testing.T) {
	assert.True(t, IsValidSequenceNumber("42"))
	assert.True(t, IsValidSequenceNumber("1700000000.123456789"))
	assert.False(t, IsValidSequenceNumber(""))
	assert.False(t, IsValidSequenceNumber("abc"))
	assert.False(t, IsValidSequenceNumber("-1"))
}

func TestIsValidSignatureProof(t *testing.T) {
	assert.True(t, IsValidSignatureProof("c2lnbmF0dXJl"))
	assert.False(t, IsValidSignatureProof(""))
	assert.False(t, IsValidSignatureProof("not base64!!"))
	assert.False(t, IsValidSignatureProof("abc"))
}

func TestIsValidIdempotencyKey(t *testing.T) {
	assert.True(t, IsValidIdempotencyKey("a3bb189e-8bf9-3888-9912-ace4e6543002"))
	assert.False(t, IsValidIdempotencyKey(""))
	assert.False(t, IsValidIdempotencyKey("not-a-uuid"))
}
