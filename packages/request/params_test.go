package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
		field   string
	}{
		{
			name:   "valid minimal params",
			params: Params{URL: "https://example.com"},
		},
		{
			name:    "missing url",
			params:  Params{},
			wantErr: true,
			field:   "url",
		},
		{
			name:    "blank url",
			params:  Params{URL: "   "},
			wantErr: true,
			field:   "url",
		},
		{
			name:   "lowercase method is accepted",
			params: Params{URL: "https://example.com", Method: "post"},
		},
		{
			name:   "mixed case method is accepted",
			params: Params{URL: "https://example.com", Method: "DeLeTe"},
		},
		{
			name:    "unknown method",
			params:  Params{URL: "https://example.com", Method: "PATCH"},
			wantErr: true,
			field:   "method",
		},
		{
			name:    "negative timeout",
			params:  Params{URL: "https://example.com", Timeout: -1 * time.Second},
			wantErr: true,
			field:   "timeout",
		},
		{
			name:    "cert without key",
			params:  Params{URL: "https://example.com", Cert: "cert-pem"},
			wantErr: true,
			field:   "key",
		},
		{
			name:    "key without cert",
			params:  Params{URL: "https://example.com", Key: "key-pem"},
			wantErr: true,
			field:   "cert",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestParams_HeaderBuilders(t *testing.T) {
	p := &Params{URL: "https://example.com"}
	p.Header("Authorization", "Bearer token").SuppressHeader("Accept")

	require.NotNil(t, p.Headers["Authorization"])
	assert.Equal(t, "Bearer token", *p.Headers["Authorization"])

	suppressed, present := p.Headers["Accept"]
	assert.True(t, present)
	assert.Nil(t, suppressed)
}
