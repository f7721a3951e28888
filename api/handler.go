package api

import (
	"net/http"

	"github.com/htol/libshelf/middleware"
	"github.com/htol/libshelf/service"
)

// NewHandler creates and returns the main HTTP handler (router) for the
// application
func NewHandler(svc *service.Service) http.Handler {
	mux := http.NewServeMux()

	// Views
	mux.Handle("GET /{$}", booksPageHandler(svc))
	mux.Handle("GET /books", booksPageHandler(svc))
	mux.Handle("GET /create-book", createBookPageHandler())
	mux.Handle("GET /books/{id}/edit", editBookPageHandler(svc))
	mux.Handle("GET /books/{id}/delete", confirmDeletePageHandler(svc))
	mux.Handle("GET /books/{id}/borrow", borrowPageHandler(svc))
	mux.Handle("GET /borrow-summary", borrowSummaryPageHandler(svc))

	// Form submissions
	mux.Handle("POST /books", createBookHandler(svc))
	mux.Handle("POST /books/{id}", updateBookHandler(svc))
	mux.Handle("POST /books/{id}/delete", deleteBookHandler(svc))
	mux.Handle("POST /books/{id}/borrow", borrowHandler(svc))

	mux.HandleFunc("GET /health", healthCheckHandler)

	// Apply middleware chain
	chain := middleware.Chain(
		middleware.Recovery,
		middleware.Logger,
		middleware.RequestID,
	)

	return chain(mux)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
