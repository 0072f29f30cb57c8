package domain

import (
	"fmt"
	"time"
)

// DateToday is the sentinel a client may store in a log's date label
// instead of a formatted date.
const DateToday = "Today"

// dateLabelLayout matches the client's display format ("MMM dd, yyyy").
const dateLabelLayout = "Jan 02, 2006"

// FormatDateLabel renders a time as a calendar-date label.
func FormatDateLabel(t time.Time) string {
	return t.Format(dateLabelLayout)
}

// ReadingLog records a reading session against a book.
//
// BookTitle is a denormalized copy, not a foreign key. BookID is a weak
// reference used for lookups only; it carries no ownership semantics.
type ReadingLog struct {
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	BookTitle string    `json:"bookTitle"`
	BookID    string    `json:"bookId,omitempty"`
	Date      string    `json:"date"`
	Notes     string    `json:"notes,omitempty"`
	PagesRead int       `json:"pagesRead"`
}

// CountsForDay reports whether this log's date label names the given day,
// either literally or via the "Today" sentinel.
func (l *ReadingLog) CountsForDay(day time.Time) bool {
	return l.Date == DateToday || l.Date == FormatDateLabel(day)
}

// FormattedTime renders the log's timestamp relative to now for recent
// entries, falling back to the date label for anything older than a week.
func (l *ReadingLog) FormattedTime() string {
	diff := time.Since(l.Timestamp)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return FormatDateLabel(l.Timestamp)
	}
}
