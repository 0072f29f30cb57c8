// Package domain contains the core business entities for the BookHive reading tracker.
package domain

import "time"

// Book represents a book a user is tracking.
//
// UserID is set exactly once, at creation, to the authenticated caller.
// It is never taken from client input after that.
type Book struct {
	AddedAt       time.Time `json:"addedTimestamp"`
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre,omitempty"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	CoverBlurHash string    `json:"coverBlurHash,omitempty"`
	TotalPages    int       `json:"totalPages"`
}

// FormattedDate renders the added timestamp as a display date, e.g. "Jan 02, 2006".
func (b *Book) FormattedDate() string {
	return FormatDateLabel(b.AddedAt)
}
