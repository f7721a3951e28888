// Package service implements the book mutation and borrow workflows on top
// of the gateway and the inventory cache. Workflow outcomes are Result
// values, never raised faults, so the views can render inline feedback.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/htol/libshelf/book"
	"github.com/htol/libshelf/cache"
)

// Result is the outcome of a workflow operation
type Result struct {
	Success bool
	Message string
}

func failure(format string, args ...any) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

func success(message string) Result {
	return Result{Success: true, Message: message}
}

// Gateway is the slice of the remote data gateway the workflows need
type Gateway interface {
	GetBook(ctx context.Context, id string) (*book.Book, error)
	CreateBook(ctx context.Context, draft book.Draft) (*book.Book, error)
	UpdateBook(ctx context.Context, id string, draft book.Draft) (*book.Book, error)
	DeleteBook(ctx context.Context, id string) error
	Borrow(ctx context.Context, req book.BorrowRequest) error
}

// Service wires the workflows to the gateway and the shared inventory cache
type Service struct {
	gw        Gateway
	inventory *cache.Inventory
	validate  *validator.Validate
}

// New creates a Service
func New(gw Gateway, inventory *cache.Inventory) *Service {
	return &Service{
		gw:        gw,
		inventory: inventory,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// validateDraft checks a draft and returns a human-readable message for
// the first failing field
func (s *Service) validateDraft(draft book.Draft) error {
	err := s.validate.Struct(draft)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.New("Invalid input")
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Title":
		return errors.New("Title is required")
	case "Author":
		return errors.New("Author is required")
	case "ISBN":
		return errors.New("ISBN is required")
	case "Genre":
		return errors.New("Please select a valid genre")
	case "Copies":
		return errors.New("Copies cannot be negative")
	}
	return fmt.Errorf("Invalid value for %s", fe.Field())
}
