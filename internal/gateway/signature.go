package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks the gateway's checkout callback signature. The
// expected value is HMAC-SHA256(secret, orderID + "|" + paymentID) hex
// encoded. Comparison is constant time.
func VerifySignature(secret, gatewayOrderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the signature delivered with an asynchronous
// webhook. The HMAC is computed over the exact raw body bytes, never a
// reparsed payload.
func VerifyWebhookSignature(secret string, rawBody []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
