package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotescroll/quotescroll/internal/entities"
)

// BookStore defines the read operations for book listings.
type BookStore interface {
	GetAllBooks() ([]entities.Book, error)
	GetBook(userBookID int) (*entities.Book, error)
}

// BookHighlightReader supplies a book's highlights.
type BookHighlightReader interface {
	GetHighlightsByBook(userBookID int) ([]entities.Highlight, error)
}

type BooksController struct {
	books      BookStore
	highlights BookHighlightReader
}

func NewBooksController(books BookStore, highlights BookHighlightReader) *BooksController {
	return &BooksController{books: books, highlights: highlights}
}

// ListBooks returns all imported books.
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	books, err := bc.books.GetAllBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books, "total": len(books)})
}

// GetBook returns a single book.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.GetBook(id)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}

	c.JSON(http.StatusOK, book)
}

// GetBookHighlights returns a book's highlights.
// GET /api/books/:id/highlights
func (bc *BooksController) GetBookHighlights(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	highlights, err := bc.highlights.GetHighlightsByBook(id)
	if err != nil {
		respondInternalError(c, err, "get book highlights")
		return
	}

	c.JSON(http.StatusOK, gin.H{"highlights": highlights, "total": len(highlights)})
}
