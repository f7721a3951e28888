package service

import (
	"context"
	"sort"
	"strings"

	"github.com/htol/libshelf/book"
	"github.com/htol/libshelf/cache"
	"github.com/htol/libshelf/gateway"
	"github.com/htol/libshelf/logger"
)

// SortBy selects the book list ordering
type SortBy string

const (
	SortByTitle  SortBy = "title"
	SortByAuthor SortBy = "author"
	SortByCopies SortBy = "copies" // descending
)

// CreateBook validates the draft, applies the availability rule and creates
// the book through the gateway. On success the book collection is
// invalidated so the next list read refetches.
func (s *Service) CreateBook(ctx context.Context, draft book.Draft) Result {
	if err := s.validateDraft(draft); err != nil {
		return failure("%s", err.Error())
	}
	draft.Available = book.Availability(draft.Copies)

	created, err := s.gw.CreateBook(ctx, draft)
	if err != nil {
		logger.Warn("Create book failed", "title", draft.Title, "error", err)
		return failure("%s", gateway.ErrorMessage(err, "Failed to create book"))
	}

	s.inventory.Invalidate(cache.TagBook)
	logger.Info("Book created", "id", created.ID, "title", created.Title)
	return success("Book created successfully")
}

// UpdateBook applies the same validation and availability rule to an
// existing record. An empty id means no edit target was selected; that is
// reported without touching the network.
func (s *Service) UpdateBook(ctx context.Context, id string, draft book.Draft) Result {
	if id == "" {
		return failure("No book selected")
	}
	if err := s.validateDraft(draft); err != nil {
		return failure("%s", err.Error())
	}
	draft.Available = book.Availability(draft.Copies)

	updated, err := s.gw.UpdateBook(ctx, id, draft)
	if err != nil {
		logger.Warn("Update book failed", "id", id, "error", err)
		return failure("%s", gateway.ErrorMessage(err, "Failed to update book"))
	}

	s.inventory.Invalidate(cache.TagBook)
	logger.Info("Book updated", "id", updated.ID, "title", updated.Title)
	return success("Book updated successfully")
}

// DeleteBook removes a book. The confirmed flag is the destructive-action
// gate: without it nothing happens, locally or remotely.
func (s *Service) DeleteBook(ctx context.Context, id string, confirmed bool) Result {
	if id == "" {
		return failure("No book selected")
	}
	if !confirmed {
		return failure("Delete not confirmed")
	}

	if err := s.gw.DeleteBook(ctx, id); err != nil {
		logger.Warn("Delete book failed", "id", id, "error", err)
		return failure("%s", gateway.ErrorMessage(err, "Failed to delete book"))
	}

	s.inventory.Invalidate(cache.TagBook)
	logger.Info("Book deleted", "id", id)
	return success("Book deleted successfully")
}

// GetBook fetches a single book directly from the gateway (edit and borrow
// forms need the current record, not the cached list)
func (s *Service) GetBook(ctx context.Context, id string) (*book.Book, error) {
	return s.gw.GetBook(ctx, id)
}

// ListBooks reads the (possibly cached) book list and applies the list
// view's search and sort: case-insensitive substring match on title or
// author, ordered by title or author ascending or copies descending.
func (s *Service) ListBooks(ctx context.Context, query string, sortBy SortBy) ([]book.Book, error) {
	books, err := s.inventory.Books(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	filtered := make([]book.Book, 0, len(books))
	for _, b := range books {
		if q == "" ||
			strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) {
			filtered = append(filtered, b)
		}
	}

	switch sortBy {
	case SortByAuthor:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Author < filtered[j].Author })
	case SortByCopies:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Copies > filtered[j].Copies })
	default:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Title < filtered[j].Title })
	}
	return filtered, nil
}

// BorrowSummary reads the (possibly cached) borrow summary
func (s *Service) BorrowSummary(ctx context.Context) ([]book.BorrowSummaryItem, error) {
	return s.inventory.Summary(ctx)
}
