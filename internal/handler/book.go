package handler

import (
	"log/slog"
	"net/http"

	"bookforge/internal/domain/models"
	"bookforge/internal/domain/services"
	"bookforge/internal/httputil"
)

// BookHandler handles book HTTP requests
type BookHandler struct {
	bookService    services.BookService
	summaryService services.ChapterSummaryService
	logger         *slog.Logger
}

// NewBookHandler creates a new book handler
func NewBookHandler(
	bookService services.BookService,
	summaryService services.ChapterSummaryService,
	logger *slog.Logger,
) *BookHandler {
	return &BookHandler{
		bookService:    bookService,
		summaryService: summaryService,
		logger:         logger,
	}
}

// HealthCheck responds to health probes
// GET /health
func (h *BookHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateBook creates a new book
// POST /api/books
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	var req models.CreateBookRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	book, err := h.bookService.CreateBook(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, book)
}

// ListBooks lists the caller's books
// GET /api/books
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	books, err := h.bookService.ListBooks(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, books)
}

// GetBook retrieves one book
// GET /api/books/{id}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	id := r.PathValue("id")

	book, err := h.bookService.GetBook(r.Context(), id, ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, book)
}

// UpdateBook applies a partial update to a book
// PATCH /api/books/{id}
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	id := r.PathValue("id")

	var req models.UpdateBookRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	book, err := h.bookService.UpdateBook(r.Context(), id, ownerID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, book)
}

// DeleteBook deletes a book
// DELETE /api/books/{id}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	id := r.PathValue("id")

	if err := h.bookService.DeleteBook(r.Context(), id, ownerID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSummaries lists a book's chapter summaries
// GET /api/books/{id}/summaries
func (h *BookHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	bookID := r.PathValue("id")

	summaries, err := h.summaryService.ListSummaries(r.Context(), bookID, ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summaries)
}

// PutSummary inserts or overwrites one chapter's summary
// PUT /api/books/{id}/summaries
func (h *BookHandler) PutSummary(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	bookID := r.PathValue("id")

	var req models.PutChapterSummaryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.summaryService.PutSummary(r.Context(), bookID, ownerID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summary)
}
