package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/htol/libshelf/book"
	"github.com/htol/libshelf/config"
	"github.com/htol/libshelf/logger"
)

func init() {
	logger.Init("error")
}

func newTestGateway(handler http.Handler) (*Gateway, *httptest.Server) {
	srv := httptest.NewServer(handler)
	gw := New(config.APIConfig{BaseURL: srv.URL})
	return gw, srv
}

func TestListBooks_DecodesEnvelope(t *testing.T) {
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/books" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(book.ListEnvelope{
			Success: true,
			Message: "Books retrieved successfully",
			Data: []book.Book{
				{ID: "1", Title: "Dune", Author: "Herbert", Copies: 2, Available: true},
			},
		})
	}))
	defer srv.Close()

	books, err := gw.ListBooks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 1 || books[0].Title != "Dune" {
		t.Errorf("unexpected books %+v", books)
	}
}

func TestCreateBook_SendsDraftAndDecodesRecord(t *testing.T) {
	var received book.Draft
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/books" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Error(err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(book.Book{ID: "42", Title: received.Title})
	}))
	defer srv.Close()

	draft := book.Draft{Title: "Dune", Author: "Herbert", Genre: book.Science, ISBN: "123", Copies: 2, Available: true}
	created, err := gw.CreateBook(context.Background(), draft)
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != "42" {
		t.Errorf("expected server-assigned id, got %q", created.ID)
	}
	if received.ISBN != "123" || !received.Available {
		t.Errorf("unexpected payload %+v", received)
	}
}

func TestUpdateBook_PutsToBookPath(t *testing.T) {
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/books/abc" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(book.Book{ID: "abc", Copies: 0, Available: false})
	}))
	defer srv.Close()

	updated, err := gw.UpdateBook(context.Background(), "abc", book.Draft{Title: "x", Author: "y", Genre: book.Fiction, ISBN: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Available {
		t.Error("expected decoded record to carry Available=false")
	}
}

func TestDeleteBook(t *testing.T) {
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/books/abc" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(book.DeleteEnvelope{Success: true, ID: "abc"})
	}))
	defer srv.Close()

	if err := gw.DeleteBook(context.Background(), "abc"); err != nil {
		t.Fatal(err)
	}
}

func TestBorrow_SendsRequest(t *testing.T) {
	var received book.BorrowRequest
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/borrow" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Error(err)
		}
		json.NewEncoder(w).Encode(book.BorrowEnvelope{Success: true, Message: "Borrowed"})
	}))
	defer srv.Close()

	req := book.BorrowRequest{Book: "abc", Quantity: 2, DueDate: "2026-09-15"}
	if err := gw.Borrow(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if received != req {
		t.Errorf("expected payload %+v, got %+v", req, received)
	}
}

func TestBorrowSummary_DecodesItems(t *testing.T) {
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"book":{"title":"Dune","isbn":"123"},"totalQuantity":5}]}`))
	}))
	defer srv.Close()

	items, err := gw.BorrowSummary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Book.Title != "Dune" || items[0].TotalQuantity != 5 {
		t.Errorf("unexpected items %+v", items)
	}
}

func TestRemoteError_CarriesMessageVerbatim(t *testing.T) {
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"Not enough copies available"}`))
	}))
	defer srv.Close()

	err := gw.Borrow(context.Background(), book.BorrowRequest{Book: "abc", Quantity: 99, DueDate: "2026-09-15"})
	if err == nil {
		t.Fatal("expected error")
	}

	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RemoteError, got %T", err)
	}
	if re.Status != http.StatusBadRequest || re.Message != "Not enough copies available" {
		t.Errorf("unexpected remote error %+v", re)
	}
	if got := ErrorMessage(err, "fallback"); got != "Not enough copies available" {
		t.Errorf("expected verbatim message, got %q", got)
	}
}

func TestRemoteError_FallbackWhenBodyUnusable(t *testing.T) {
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := gw.ListBooks(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := ErrorMessage(err, "Failed to load books"); got != "Failed to load books" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestErrorMessage_PlainError(t *testing.T) {
	if got := ErrorMessage(errors.New("dial tcp: refused"), "fallback"); got != "fallback" {
		t.Errorf("expected fallback for transport errors, got %q", got)
	}
}
