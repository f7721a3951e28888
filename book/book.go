// Package book defines the domain types shared across the application and
// the wire shapes of the remote library API.
package book

// Genre is the fixed set of book genres accepted by the remote API.
type Genre string

const (
	Fiction    Genre = "FICTION"
	NonFiction Genre = "NON_FICTION"
	Science    Genre = "SCIENCE"
	History    Genre = "HISTORY"
	Biography  Genre = "BIOGRAPHY"
	Fantasy    Genre = "FANTASY"
)

// Genres returns all genres in display order (for form selects)
func Genres() []Genre {
	return []Genre{Fiction, NonFiction, Science, History, Biography, Fantasy}
}

// Valid reports whether g is one of the known genres
func (g Genre) Valid() bool {
	switch g {
	case Fiction, NonFiction, Science, History, Biography, Fantasy:
		return true
	}
	return false
}

// Book is a single book record as stored by the remote API. The server
// assigns ID; it is immutable after creation.
type Book struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       Genre  `json:"genre"`
	ISBN        string `json:"isbn"`
	Description string `json:"description,omitempty"`
	Copies      int    `json:"copies"`
	Available   bool   `json:"available"`
}

// Draft is the create/update payload for a book. Available is always
// recomputed from Copies before submission, whatever the caller set.
type Draft struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Genre       Genre  `json:"genre" validate:"required,oneof=FICTION NON_FICTION SCIENCE HISTORY BIOGRAPHY FANTASY"`
	ISBN        string `json:"isbn" validate:"required"`
	Description string `json:"description,omitempty"`
	Copies      int    `json:"copies" validate:"gte=0"`
	Available   bool   `json:"available"`
}

// Availability derives the available flag from a copy count. This is the
// only place the rule lives; every write path goes through it.
func Availability(copies int) bool {
	return copies > 0
}

// BorrowRequest is the POST /borrow payload
type BorrowRequest struct {
	Book     string `json:"book"`
	Quantity int    `json:"quantity"`
	DueDate  string `json:"dueDate"`
}

// BorrowSummaryItem is one row of the borrow summary aggregate. It is
// computed entirely server-side; the client only renders it.
type BorrowSummaryItem struct {
	Book          SummaryBook `json:"book"`
	TotalQuantity int         `json:"totalQuantity"`
}

// SummaryBook identifies the book of a summary row
type SummaryBook struct {
	Title string `json:"title"`
	ISBN  string `json:"isbn"`
}

// ListEnvelope wraps GET /books responses
type ListEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    []Book `json:"data"`
}

// DeleteEnvelope wraps DELETE /books/{id} responses
type DeleteEnvelope struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// BorrowEnvelope wraps POST /borrow responses
type BorrowEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SummaryEnvelope wraps GET /borrow responses
type SummaryEnvelope struct {
	Data []BorrowSummaryItem `json:"data"`
}
