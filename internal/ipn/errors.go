package ipn

import (
	"errors"
	"fmt"
)

// Classified processing failures. The HTTP layer maps these to response
// codes; none of the messages are ever written to the network caller.
var (
	ErrHashAlgorithmUnavailable = errors.New("the runtime does not support the SHA-256 hash algorithm")
	ErrInvalidFormat            = errors.New("the IPN JSON data is invalid")
	ErrOrderNotFound            = errors.New("no order matches the merchant invoice")
	ErrMerchantMismatch         = errors.New("configured and asserted merchant ids do not match")
	ErrHashMismatch             = errors.New("the notification cannot be processed due to a hash mismatch")
)

// MissingFieldError reports a required IPN parameter that is absent or
// blank after trimming.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing %s IPN parameter", e.Field)
}

// IsVerificationFailure reports whether err is one of the security-relevant
// rejection classes (merchant or hash mismatch).
func IsVerificationFailure(err error) bool {
	return errors.Is(err, ErrMerchantMismatch) || errors.Is(err, ErrHashMismatch)
}
