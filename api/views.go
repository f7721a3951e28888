package api

import (
	"net/http"

	"github.com/htol/libshelf/book"
	"github.com/htol/libshelf/logger"
	"github.com/htol/libshelf/service"
)

type booksPage struct {
	Title  string
	Notice string
	Books  []book.Book
	Query  string
	SortBy string
}

type bookFormPage struct {
	Title  string
	Notice string
	Action string
	Draft  book.Draft
	Genres []book.Genre
	Edit   bool
}

type confirmDeletePage struct {
	Title  string
	Notice string
	Book   *book.Book
}

type borrowPage struct {
	Title  string
	Notice string
	Book   *book.Book
	Dialog *service.BorrowDialog
}

type summaryPage struct {
	Title  string
	Notice string
	Items  []book.BorrowSummaryItem
}

func booksPageHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		sortBy := service.SortBy(r.URL.Query().Get("sort"))

		books, err := svc.ListBooks(r.Context(), query, sortBy)
		if err != nil {
			respondWithError(w, "Failed to load books", err, http.StatusBadGateway)
			return
		}

		render(w, "books.html", booksPage{
			Title:  "Books",
			Notice: r.URL.Query().Get("notice"),
			Books:  books,
			Query:  query,
			SortBy: string(sortBy),
		})
	})
}

func createBookPageHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render(w, "book_form.html", bookFormPage{
			Title:  "Add Book",
			Action: "/books",
			Draft:  book.Draft{Copies: 1, Available: true},
			Genres: book.Genres(),
		})
	})
}

func editBookPageHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		b, err := svc.GetBook(r.Context(), id)
		if err != nil {
			respondWithError(w, "Failed to load book", err, http.StatusBadGateway)
			return
		}

		render(w, "book_form.html", bookFormPage{
			Title:  "Edit Book",
			Action: "/books/" + id,
			Draft: book.Draft{
				Title:       b.Title,
				Author:      b.Author,
				Genre:       b.Genre,
				ISBN:        b.ISBN,
				Description: b.Description,
				Copies:      b.Copies,
				Available:   b.Available,
			},
			Genres: book.Genres(),
			Edit:   true,
		})
	})
}

func confirmDeletePageHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.GetBook(r.Context(), r.PathValue("id"))
		if err != nil {
			respondWithError(w, "Failed to load book", err, http.StatusBadGateway)
			return
		}

		render(w, "confirm_delete.html", confirmDeletePage{
			Title: "Delete Book",
			Book:  b,
		})
	})
}

func borrowPageHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.GetBook(r.Context(), r.PathValue("id"))
		if err != nil {
			respondWithError(w, "Failed to load book", err, http.StatusBadGateway)
			return
		}

		// Copies snapshot taken here bounds the whole dialog lifetime.
		render(w, "borrow_form.html", borrowPage{
			Title:  "Borrow Book",
			Book:   b,
			Dialog: service.OpenBorrowDialog(*b),
		})
	})
}

func borrowSummaryPageHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.BorrowSummary(r.Context())
		if err != nil {
			respondWithError(w, "Failed to load summary", err, http.StatusBadGateway)
			return
		}

		render(w, "summary.html", summaryPage{
			Title:  "Borrow Summary",
			Notice: r.URL.Query().Get("notice"),
			Items:  items,
		})
	})
}

// respondWithError logs an error and renders a plain error response
func respondWithError(w http.ResponseWriter, message string, err error, statusCode int) {
	logger.Error(message, "error", err, "status", statusCode)
	http.Error(w, message, statusCode)
}
