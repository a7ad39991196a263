package handler

import (
	"net/http"

	"docx-pdf-service/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(conversionHandler *ConversionHandler, logger domain.Logger, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.Use(RequestLoggingMiddleware(logger), RecoveryMiddleware(logger))

	router.HandleFunc("/", conversionHandler.Index).Methods(http.MethodGet)
	router.HandleFunc("/health", conversionHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/upload", conversionHandler.Upload).Methods(http.MethodPost)
	router.HandleFunc("/download/{filename}", conversionHandler.Download).Methods(http.MethodGet, http.MethodHead)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			RequestIDHeader,
		},
		ExposedHeaders: []string{
			"Content-Disposition",
			RequestIDHeader,
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
