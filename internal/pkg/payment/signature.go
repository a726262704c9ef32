package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// signHex returns the hex HMAC-SHA256 of payload under secret.
func signHex(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// verifyHex compares a hex signature against the expected HMAC in constant
// time. hmac.Equal keeps the comparison timing-independent.
func verifyHex(secret string, payload []byte, signature string) bool {
	expected := signHex(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
