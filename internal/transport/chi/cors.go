package chi

import (
	"net/http"

	chicors "github.com/go-chi/cors"
)

// corsMethods are the verbs the asset API routes; preflights for anything
// else are refused.
var corsMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodOptions,
}

// CORSMiddleware answers browser preflights for the given origins. No
// origins means no CORS handling.
func CORSMiddleware(origins []string, allowCredentials bool, maxAgeSec int) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   corsMethods,
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"ETag", "X-Request-ID"},
		AllowCredentials: allowCredentials,
		MaxAge:           maxAgeSec,
	})
}
