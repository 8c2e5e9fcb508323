package ipn

import (
	"crypto"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Credentials is the configured (merchant id, IPN secret) pair resolved
// per request from store configuration.
type Credentials struct {
	MerchantID string
	IPNSecret  string
}

// CheckHashAlgorithm verifies SHA-256 is linked into the binary. The
// gateway protocol cannot be spoken without it, so absence is fatal.
func CheckHashAlgorithm() error {
	if !crypto.SHA256.Available() {
		return ErrHashAlgorithmUnavailable
	}
	return nil
}

// ExpectedHash computes the uppercase hex SHA-256 over the exact
// concatenation sale_id + merchant_id + merchant_invoice + ipn_secret.
// The field order is part of the wire contract and must not change.
func ExpectedHash(saleID, merchantID, merchantInvoice, ipnSecret string) string {
	sum := sha256.Sum256([]byte(saleID + merchantID + merchantInvoice + ipnSecret))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Verify authenticates a notification against the configured credentials.
// The merchant-id pre-check catches a wrong-install scenario before the
// hash is even computed; the hash compare is constant-time.
func Verify(n *Notification, creds Credentials) error {
	if !strings.EqualFold(creds.MerchantID, n.MerchantID) {
		return ErrMerchantMismatch
	}

	expected := ExpectedHash(n.SaleID, creds.MerchantID, n.MerchantInvoice, creds.IPNSecret)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(n.Hash)) != 1 {
		return ErrHashMismatch
	}
	return nil
}
