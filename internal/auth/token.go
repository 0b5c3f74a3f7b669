package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "lunaria_session"

// NewToken returns a 32-byte random token, hex encoded. Used both for
// session IDs and password-reset tokens.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Sign produces the cookie value "token.signature" where the signature is
// HMAC-SHA256 over the token under the session secret.
func Sign(token, secret string) string {
	return token + "." + signature(token, secret)
}

// Verify splits a cookie value and checks its signature in constant time,
// returning the embedded token. The token is only looked up in the session
// store after the signature checks out.
func Verify(value, secret string) (string, bool) {
	token, sig, ok := strings.Cut(value, ".")
	if !ok || token == "" {
		return "", false
	}
	expected := signature(token, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return token, true
}

func signature(token, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
