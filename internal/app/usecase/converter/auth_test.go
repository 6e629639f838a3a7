package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		token   string
		wantErr bool
	}{
		{
			name:   "valid bearer header",
			header: "Bearer abc.def.ghi",
			token:  "abc.def.ghi",
		},
		{
			name:    "missing scheme",
			header:  "abc.def.ghi",
			wantErr: true,
		},
		{
			name:    "wrong scheme",
			header:  "Basic abc",
			wantErr: true,
		},
		{
			name:    "too many parts",
			header:  "Bearer abc def",
			wantErr: true,
		},
		{
			name:    "empty header",
			header:  "",
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			token, err := GetTokenFromAuthHeader(test.header)
			if test.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.token, token)
		})
	}
}

func TestSetTokenToAuthHeaderFormat(t *testing.T) {
	header := SetTokenToAuthHeaderFormat("abc")
	assert.Equal(t, "Bearer abc", header)

	token, err := GetTokenFromAuthHeader(header)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}
