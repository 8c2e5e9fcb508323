package ipn

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHashAlgorithm(t *testing.T) {
	assert.NoError(t, CheckHashAlgorithm())
}

func TestExpectedHashDeterministic(t *testing.T) {
	a := ExpectedHash("S1", "M1", "100000123", "secret")
	b := ExpectedHash("S1", "M1", "100000123", "secret")
	assert.Equal(t, a, b)

	// Uppercase hex of the documented concatenation.
	sum := sha256.Sum256([]byte("S1M1100000123secret"))
	assert.Equal(t, strings.ToUpper(hex.EncodeToString(sum[:])), a)
}

func TestExpectedHashChangesWithEachInput(t *testing.T) {
	base := ExpectedHash("S1", "M1", "100000123", "secret")

	assert.NotEqual(t, base, ExpectedHash("S2", "M1", "100000123", "secret"))
	assert.NotEqual(t, base, ExpectedHash("S1", "M2", "100000123", "secret"))
	assert.NotEqual(t, base, ExpectedHash("S1", "M1", "100000124", "secret"))
	assert.NotEqual(t, base, ExpectedHash("S1", "M1", "100000123", "secret2"))

	// Shifting a character across a field boundary must change the hash
	// inputs, not just rearrange them.
	assert.NotEqual(t,
		ExpectedHash("S1M", "1", "100000123", "secret"),
		ExpectedHash("S1", "M1", "100000123", "secret"),
	)
}

func TestVerifyAcceptsCorrectHash(t *testing.T) {
	creds := Credentials{MerchantID: "M1", IPNSecret: "secret"}
	n := &Notification{
		SaleID:          "S1",
		MerchantInvoice: "100000123",
		MerchantID:      "M1",
		Hash:            ExpectedHash("S1", "M1", "100000123", "secret"),
	}
	assert.NoError(t, Verify(n, creds))
}

func TestVerifyRejectsAlteredHash(t *testing.T) {
	creds := Credentials{MerchantID: "M1", IPNSecret: "secret"}
	good := ExpectedHash("S1", "M1", "100000123", "secret")

	altered := []byte(good)
	if altered[0] == 'A' {
		altered[0] = 'B'
	} else {
		altered[0] = 'A'
	}

	n := &Notification{
		SaleID:          "S1",
		MerchantInvoice: "100000123",
		MerchantID:      "M1",
		Hash:            string(altered),
	}
	assert.ErrorIs(t, Verify(n, creds), ErrHashMismatch)
}

func TestVerifyMerchantMismatchBeforeHash(t *testing.T) {
	creds := Credentials{MerchantID: "M1", IPNSecret: "secret"}
	n := &Notification{
		SaleID:          "S1",
		MerchantInvoice: "100000123",
		MerchantID:      "OTHER",
		// Hash is correct for the configured merchant; the merchant
		// pre-check must still reject first.
		Hash: ExpectedHash("S1", "M1", "100000123", "secret"),
	}
	assert.ErrorIs(t, Verify(n, creds), ErrMerchantMismatch)
}

func TestVerifyMerchantComparisonIsCaseInsensitive(t *testing.T) {
	creds := Credentials{MerchantID: "Merchant-One", IPNSecret: "secret"}
	n := &Notification{
		SaleID:          "S1",
		MerchantInvoice: "100000123",
		MerchantID:      "MERCHANT-ONE",
		Hash:            ExpectedHash("S1", "Merchant-One", "100000123", "secret"),
	}
	require.NoError(t, Verify(n, creds))
}

func TestIsVerificationFailure(t *testing.T) {
	assert.True(t, IsVerificationFailure(ErrMerchantMismatch))
	assert.True(t, IsVerificationFailure(ErrHashMismatch))
	assert.False(t, IsVerificationFailure(ErrOrderNotFound))
	assert.False(t, IsVerificationFailure(nil))
}
