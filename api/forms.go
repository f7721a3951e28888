package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/htol/libshelf/book"
	"github.com/htol/libshelf/service"
)

// draftFromForm builds a book draft from submitted form values. Copies
// parse failures become -1 so the workflow's gte-0 check rejects them with
// a readable message instead of silently defaulting.
func draftFromForm(r *http.Request) book.Draft {
	copies, err := strconv.Atoi(r.PostFormValue("copies"))
	if err != nil {
		copies = -1
	}
	return book.Draft{
		Title:       r.PostFormValue("title"),
		Author:      r.PostFormValue("author"),
		Genre:       book.Genre(r.PostFormValue("genre")),
		ISBN:        r.PostFormValue("isbn"),
		Description: r.PostFormValue("description"),
		Copies:      copies,
		Available:   r.PostFormValue("available") == "on",
	}
}

func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	http.Redirect(w, r, path+"?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}

func createBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		draft := draftFromForm(r)

		res := svc.CreateBook(r.Context(), draft)
		if !res.Success {
			// Keep the form open with the message, two-phase commit style.
			render(w, "book_form.html", bookFormPage{
				Title:  "Add Book",
				Notice: res.Message,
				Action: "/books",
				Draft:  draft,
				Genres: book.Genres(),
			})
			return
		}
		redirectWithNotice(w, r, "/books", res.Message)
	})
}

func updateBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		draft := draftFromForm(r)

		res := svc.UpdateBook(r.Context(), id, draft)
		if !res.Success {
			render(w, "book_form.html", bookFormPage{
				Title:  "Edit Book",
				Notice: res.Message,
				Action: "/books/" + id,
				Draft:  draft,
				Genres: book.Genres(),
				Edit:   true,
			})
			return
		}
		redirectWithNotice(w, r, "/books", res.Message)
	})
}

func deleteBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		confirmed := r.PostFormValue("confirm") == "yes"

		res := svc.DeleteBook(r.Context(), r.PathValue("id"), confirmed)
		redirectWithNotice(w, r, "/books", res.Message)
	})
}

func borrowHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
		if err != nil {
			quantity = 0
		}
		maxQuantity, err := strconv.Atoi(r.PostFormValue("max"))
		if err != nil {
			maxQuantity = 0
		}

		dialog := service.ResumeBorrowDialog(id, maxQuantity, quantity, r.PostFormValue("dueDate"))
		res := svc.SubmitBorrow(r.Context(), dialog)
		if !res.Success {
			// Re-render from the submitted fields alone; a validation
			// failure must not trigger any network traffic.
			render(w, "borrow_form.html", borrowPage{
				Title:  "Borrow Book",
				Notice: res.Message,
				Book:   &book.Book{ID: id, Title: r.PostFormValue("bookTitle")},
				Dialog: dialog,
			})
			return
		}
		redirectWithNotice(w, r, "/borrow-summary", res.Message)
	})
}
