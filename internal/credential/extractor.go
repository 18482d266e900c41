package credential

import (
	"net/http"
	"strings"
)

// authorizationHeader is the header carrying the bearer credential.
const authorizationHeader = "Authorization"

// ExtractBearer parses an Authorization header value and returns the bearer
// token it carries. The scheme comparison is case-insensitive ("Bearer",
// "bearer" and "BEARER" are all accepted). An absent, malformed or empty-token
// header yields ok=false; absence is a normal outcome, not an error.
func ExtractBearer(header string) (token string, ok bool) {
	if header == "" {
		return "", false
	}

	scheme, rest, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(rest)
	if token == "" {
		return "", false
	}
	return token, true
}

// FromRequest extracts the bearer credential from an inbound HTTP request.
func FromRequest(r *http.Request) (string, bool) {
	return ExtractBearer(r.Header.Get(authorizationHeader))
}
