package services

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// InviteCodeLength is the length of a normalized invite code
const InviteCodeLength = 6

const (
	// no 0/O or 1/I
	inviteCodeChars       = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	maxInviteCodeAttempts = 10
)

// GenerateInviteCode returns a random 6-character invite code.
// Uniqueness is checked by the caller.
func GenerateInviteCode() string {
	code := make([]byte, InviteCodeLength)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCodeChars))))
		code[i] = inviteCodeChars[n.Int64()]
	}
	return string(code)
}

// NormalizeInviteCode trims and uppercases user-typed codes
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
