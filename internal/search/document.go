// Package search provides full-text book search using Bleve, with fuzzy
// matching, genre faceting, and per-user result scoping.
package search

import (
	"github.com/bookhiveapp/bookhive-server/internal/domain"
)

// BookDocument is the indexed representation of a book.
type BookDocument struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Genre      string `json:"genre,omitempty"`
	TotalPages int    `json:"total_pages,omitempty"`
	AddedAt    int64  `json:"added_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve defaults to Go struct field names; the index mapping uses
// lowercase, so the conversion is explicit.
func (d *BookDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":       d.ID,
		"user_id":  d.UserID,
		"title":    d.Title,
		"author":   d.Author,
		"added_at": d.AddedAt,
	}

	if d.Genre != "" {
		m["genre"] = d.Genre
	}
	if d.TotalPages > 0 {
		m["total_pages"] = d.TotalPages
	}

	return m
}

// FromBook converts a domain Book to its indexed form.
func FromBook(book *domain.Book) *BookDocument {
	return &BookDocument{
		ID:         book.ID,
		UserID:     book.UserID,
		Title:      book.Title,
		Author:     book.Author,
		Genre:      book.Genre,
		TotalPages: book.TotalPages,
		AddedAt:    book.AddedAt.UnixMilli(),
	}
}
