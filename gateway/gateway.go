// Package gateway wraps the remote library API. It is the only place in
// the application that talks HTTP to the outside; everything above it works
// with domain types and plain errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/htol/libshelf/book"
	"github.com/htol/libshelf/config"
	"github.com/htol/libshelf/logger"
)

// RemoteError is a non-2xx response from the remote API. Message carries
// the remote "message" field verbatim when the body had one.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote API: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("remote API: status %d", e.Status)
}

// ErrorMessage extracts the verbatim remote message from err, or returns
// fallback when the error carries no usable message. This is the single
// error-to-text boundary used by the workflows.
func ErrorMessage(err error, fallback string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}

// Gateway performs HTTP calls against the remote library API
type Gateway struct {
	baseURL string
	client  *http.Client
}

// New creates a Gateway for the given API config
func New(cfg config.APIConfig) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
	}
}

// ListBooks retrieves all books
func (g *Gateway) ListBooks(ctx context.Context) ([]book.Book, error) {
	var env book.ListEnvelope
	if err := g.do(ctx, http.MethodGet, "/books", nil, &env); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return env.Data, nil
}

// GetBook retrieves a single book by ID
func (g *Gateway) GetBook(ctx context.Context, id string) (*book.Book, error) {
	var b book.Book
	if err := g.do(ctx, http.MethodGet, "/books/"+url.PathEscape(id), nil, &b); err != nil {
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}
	return &b, nil
}

// CreateBook creates a book from a draft and returns the stored record
func (g *Gateway) CreateBook(ctx context.Context, draft book.Draft) (*book.Book, error) {
	var b book.Book
	if err := g.do(ctx, http.MethodPost, "/books", draft, &b); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return &b, nil
}

// UpdateBook updates an existing book and returns the stored record
func (g *Gateway) UpdateBook(ctx context.Context, id string, draft book.Draft) (*book.Book, error) {
	var b book.Book
	if err := g.do(ctx, http.MethodPut, "/books/"+url.PathEscape(id), draft, &b); err != nil {
		return nil, fmt.Errorf("update book %s: %w", id, err)
	}
	return &b, nil
}

// DeleteBook removes a book
func (g *Gateway) DeleteBook(ctx context.Context, id string) error {
	var env book.DeleteEnvelope
	if err := g.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(id), nil, &env); err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	return nil
}

// Borrow submits a borrow request
func (g *Gateway) Borrow(ctx context.Context, req book.BorrowRequest) error {
	var env book.BorrowEnvelope
	if err := g.do(ctx, http.MethodPost, "/borrow", req, &env); err != nil {
		return fmt.Errorf("borrow book %s: %w", req.Book, err)
	}
	return nil
}

// BorrowSummary retrieves the outstanding-borrow aggregate
func (g *Gateway) BorrowSummary(ctx context.Context) ([]book.BorrowSummaryItem, error) {
	var env book.SummaryEnvelope
	if err := g.do(ctx, http.MethodGet, "/borrow", nil, &env); err != nil {
		return nil, fmt.Errorf("borrow summary: %w", err)
	}
	return env.Data, nil
}

// do performs one request. A non-2xx status becomes a *RemoteError with the
// body's "message" field when the body parses as the usual envelope.
func (g *Gateway) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func remoteError(resp *http.Response) error {
	re := &RemoteError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		logger.Warn("Failed to read error response body", "error", err, "status", resp.StatusCode)
		return re
	}

	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Message != "" {
			re.Message = env.Message
		} else if env.Error != "" {
			re.Message = env.Error
		}
	}
	return re
}
