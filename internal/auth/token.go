package auth

import (
	"net/http"
	"strings"
)

const (
	AccessTokenCookie = "access_token"
	bearerPrefix      = "Bearer "
)

// ExtractAccessToken reads the access token from the access_token cookie,
// falling back to the Authorization bearer header.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		if v := strings.TrimSpace(cookie.Value); v != "" {
			return v
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	}

	return ""
}
