package credential

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantOK    bool
	}{
		{name: "valid bearer", header: "Bearer tok-123", wantToken: "tok-123", wantOK: true},
		{name: "lowercase scheme", header: "bearer tok-123", wantToken: "tok-123", wantOK: true},
		{name: "uppercase scheme", header: "BEARER tok-123", wantToken: "tok-123", wantOK: true},
		{name: "empty header", header: "", wantOK: false},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantOK: false},
		{name: "truncated scheme", header: "Bear abc", wantOK: false},
		{name: "scheme only", header: "Bearer", wantOK: false},
		{name: "scheme with empty token", header: "Bearer ", wantOK: false},
		{name: "scheme with whitespace token", header: "Bearer    ", wantOK: false},
		{name: "token with inner spaces is relayed verbatim", header: "Bearer a b c", wantToken: "a b c", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := ExtractBearer(tt.header)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/sse", nil)
	r.Header.Set("Authorization", "Bearer tok-abc")

	token, ok := FromRequest(r)
	require.True(t, ok)
	assert.Equal(t, "tok-abc", token)

	r = httptest.NewRequest("GET", "/sse", nil)
	_, ok = FromRequest(r)
	assert.False(t, ok)
}

func TestTokenContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := TokenFromContext(ctx)
	assert.False(t, ok)

	ctx = ContextWithToken(ctx, "tok-xyz")
	token, ok := TokenFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok-xyz", token)
}

func TestTokenFromContextEmptyToken(t *testing.T) {
	// An empty token must never masquerade as a present credential.
	ctx := ContextWithToken(context.Background(), "")
	_, ok := TokenFromContext(ctx)
	assert.False(t, ok)
}
