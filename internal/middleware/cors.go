package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors lets the popup page, served from an extension or a local origin,
// call the API with credentials.
func Cors(allowOrigin func(origin string) bool) Middleware {
	options := cors.Options{
		AllowOriginFunc: allowOrigin,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}
