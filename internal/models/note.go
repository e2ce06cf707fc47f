package models

import (
	"errors"
	"strings"
)

var (
	ErrEmptyNoteTitle   = errors.New("note title cannot be empty")
	ErrNoteTitleTooLong = errors.New("note title too long (max 100 characters)")
	ErrNoteTooLong      = errors.New("note content too long (max 10000 characters)")
	ErrMissingNoteTrip  = errors.New("note must belong to a trip")
)

// Note is a free-text memo shared by the members of a trip.
type Note struct {
	// ID is the unique identifier for the note (UUID format).
	ID string

	// TripID is the trip this note belongs to.
	TripID string

	Title   string
	Content string

	// CreatedBy is the user ID of the member who wrote the note.
	CreatedBy string

	// CreatedAt and UpdatedAt are Unix timestamps. Notes are listed by
	// UpdatedAt, most recent first.
	CreatedAt int64
	UpdatedAt int64
}

// Validate checks that the note is well formed.
func (n *Note) Validate() error {
	if n.TripID == "" {
		return ErrMissingNoteTrip
	}
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyNoteTitle
	}
	if len(n.Title) > 100 {
		return ErrNoteTitleTooLong
	}
	if len(n.Content) > 10000 {
		return ErrNoteTooLong
	}
	return nil
}
