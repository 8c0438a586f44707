package common

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
)

func hmacSum(h func() hash.Hash, message, secret string) []byte {
	mac := hmac.New(h, []byte(secret))
	mac.Write([]byte(message))
	return mac.Sum(nil)
}

// HmacSHA256Hex returns the hex encoded HMAC-SHA256 of message under secret.
func HmacSHA256Hex(message, secret string) string {
	return hex.EncodeToString(hmacSum(sha256.New, message, secret))
}

// HmacSHA512Hex returns the hex encoded HMAC-SHA512 of message under secret.
func HmacSHA512Hex(message, secret string) string {
	return hex.EncodeToString(hmacSum(sha512.New, message, secret))
}
