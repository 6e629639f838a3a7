package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{email: "alice@example.com", valid: true},
		{email: "a@b.co", valid: true},
		{email: "no-at-sign.com", valid: false},
		{email: "@example.com", valid: false},
		{email: "alice@example.", valid: false},
		{email: "alice@.com", valid: false},
		{email: "", valid: false},
	}

	for _, test := range tests {
		t.Run(test.email, func(t *testing.T) {
			assert.Equal(t, test.valid, Email(test.email))
		})
	}
}

func TestPassword(t *testing.T) {
	assert.True(t, Password("secret"))
	assert.True(t, Password("a very long password"))
	assert.False(t, Password("short"))
	assert.False(t, Password(""))
}

func TestCredentials(t *testing.T) {
	assert.True(t, Credentials("alice@example.com", "secret"))
	assert.False(t, Credentials("alice@example.com", "short"))
	assert.False(t, Credentials("not-an-email", "secret"))
}
