package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Today is the date format the club sheet has always used.
func Today() string {
	return time.Now().Format("2006/01/02")
}

func NowLocal() string {
	return time.Now().Format("2006/01/02 15:04:05")
}

// NormalizeBool reads sheet flags such as TRUE, yes, 1 or はい.
func NormalizeBool(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "true", "yes", "1", "y", "はい", "○":
		return true
	default:
		return false
	}
}

func HMACSHA256Hex(secret, msg string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidToken compares an export token in constant time.
func ValidToken(secret, msg, token string) bool {
	expected := HMACSHA256Hex(secret, msg)
	return hmac.Equal([]byte(expected), []byte(token))
}
