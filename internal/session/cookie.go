package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// The cookie carries "<id>.<hexhmac>". The id alone grants nothing without a
// valid signature, so a client cannot mint or swap session ids.

func signCookie(secret []byte, id string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(id))

	return id + "." + hex.EncodeToString(mac.Sum(nil))
}

func parseCookie(secret []byte, value string) (string, bool) {
	id, sig, ok := strings.Cut(value, ".")

	if !ok || id == "" {
		return "", false
	}

	got, err := hex.DecodeString(sig)

	if err != nil {
		return "", false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(id))

	if !hmac.Equal(got, mac.Sum(nil)) {
		return "", false
	}

	return id, true
}
