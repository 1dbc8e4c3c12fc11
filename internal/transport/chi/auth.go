package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// publicRoutes are served without a key.
var publicRoutes = []string{"/health", "/metrics"}

// BearerAuth guards the offer API with static API keys sent as
// "Authorization: Bearer <key>". Blank keys are dropped; when none remain the
// middleware is a no-op, which is how local setups run.
func BearerAuth(apiKeys []string) func(http.Handler) http.Handler {
	var keys [][]byte
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if msg := checkBearer(r.Header.Get("Authorization"), keys); msg != "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="perkdex"`)
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checkBearer returns an error message, or "" when the header carries a known key.
func checkBearer(header string, keys [][]byte) string {
	if header == "" {
		return "missing authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "authorization header must use Bearer scheme"
	}
	given := []byte(strings.TrimSpace(token))
	// No short-circuit: every key is compared.
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare(given, k)
	}
	if match != 1 {
		return "invalid api key"
	}
	return ""
}

func isPublic(path string) bool {
	for _, p := range publicRoutes {
		if path == p {
			return true
		}
	}
	return false
}
