package service

import (
	"context"
	"fmt"
	"time"

	"github.com/htol/libshelf/book"
	"github.com/htol/libshelf/cache"
	"github.com/htol/libshelf/gateway"
	"github.com/htol/libshelf/logger"
)

// DialogState tracks a borrow dialog through its lifecycle
type DialogState int

const (
	StateIdle DialogState = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (st DialogState) String() string {
	switch st {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// DateLayout is the wire and form format for due dates
const DateLayout = "2006-01-02"

// BorrowDialog is one borrow form instance. MaxQuantity is a snapshot of
// the book's copy count taken when the dialog opened; it is not
// re-validated against a live value, so losing a race to another client is
// an expected failure reported with the remote message.
type BorrowDialog struct {
	BookID      string
	MaxQuantity int
	Quantity    int
	DueDate     string
	State       DialogState
	Notice      string

	now func() time.Time
}

// OpenBorrowDialog starts a dialog for the given book with the default
// quantity of 1 and today's date.
func OpenBorrowDialog(b book.Book) *BorrowDialog {
	d := &BorrowDialog{
		BookID:      b.ID,
		MaxQuantity: b.Copies,
		State:       StateIdle,
		now:         time.Now,
	}
	d.reset()
	return d
}

func (d *BorrowDialog) reset() {
	d.Quantity = 1
	d.DueDate = d.today().Format(DateLayout)
}

func (d *BorrowDialog) today() time.Time {
	t := d.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// validate checks quantity, then due-date presence, then due-date range;
// the first failure wins.
func (d *BorrowDialog) validate() string {
	if d.Quantity < 1 || d.Quantity > d.MaxQuantity {
		return fmt.Sprintf("Quantity must be between 1 and %d", d.MaxQuantity)
	}
	if d.DueDate == "" {
		return "Please select a due date"
	}
	if _, err := time.Parse(DateLayout, d.DueDate); err != nil {
		return "Please select a due date"
	}
	// Calendar dates in this layout compare lexicographically, which
	// sidesteps timezone skew between the form and the server.
	if d.DueDate < d.today().Format(DateLayout) {
		return "Due date cannot be in the past"
	}
	return ""
}

// ResumeBorrowDialog rebuilds a dialog from submitted form state. The
// maxQuantity snapshot travels with the form, so a dialog opened before
// another client borrowed the last copies keeps its original bound; the
// remote API is the authority that rejects the stale request.
func ResumeBorrowDialog(bookID string, maxQuantity, quantity int, dueDate string) *BorrowDialog {
	return &BorrowDialog{
		BookID:      bookID,
		MaxQuantity: maxQuantity,
		Quantity:    quantity,
		DueDate:     dueDate,
		State:       StateIdle,
		now:         time.Now,
	}
}

// SubmitBorrow runs a borrow dialog submission against this service's
// gateway and cache
func (s *Service) SubmitBorrow(ctx context.Context, d *BorrowDialog) Result {
	return d.Submit(ctx, s.gw, s.inventory)
}

// Submit validates the dialog fields and, when they pass, sends the borrow
// request. Validation failures never reach the network. On success the
// fields reset to defaults and both the book and borrow collections are
// invalidated; on failure the dialog stays open for resubmission.
func (d *BorrowDialog) Submit(ctx context.Context, gw Gateway, inventory *cache.Inventory) Result {
	if msg := d.validate(); msg != "" {
		d.State = StateIdle
		d.Notice = msg
		return failure("%s", msg)
	}

	d.State = StateSubmitting
	err := gw.Borrow(ctx, book.BorrowRequest{
		Book:     d.BookID,
		Quantity: d.Quantity,
		DueDate:  d.DueDate,
	})
	if err != nil {
		msg := gateway.ErrorMessage(err, "Failed to borrow book.")
		logger.Warn("Borrow failed", "book", d.BookID, "quantity", d.Quantity, "error", err)
		// Failed is not fatal: the dialog keeps its fields and accepts
		// another Submit.
		d.State = StateFailed
		d.Notice = msg
		return failure("%s", msg)
	}

	logger.Info("Book borrowed", "book", d.BookID, "quantity", d.Quantity, "due", d.DueDate)
	inventory.Invalidate(cache.TagBook, cache.TagBorrow)
	d.State = StateSucceeded
	d.Notice = ""
	d.reset()
	return success("Book borrowed successfully!")
}
