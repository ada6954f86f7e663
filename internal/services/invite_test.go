package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInviteCodeAlphabet(t *testing.T) {
	for i := 0; i < 500; i++ {
		code := GenerateInviteCode()
		assert.Len(t, code, 6)
		assert.Equal(t, strings.ToUpper(code), code)
		for _, c := range code {
			assert.Truef(t, strings.ContainsRune(inviteCodeChars, c), "unexpected %q in %s", c, code)
		}
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "1")
		assert.NotContains(t, code, "I")
	}
}

func TestInviteAlphabetHas32Symbols(t *testing.T) {
	assert.Len(t, inviteCodeChars, 32)
}

func TestNormalizeInviteCode(t *testing.T) {
	assert.Equal(t, "XYZ234", NormalizeInviteCode(" xyz234 "))
	assert.Equal(t, "", NormalizeInviteCode("   "))
}
