package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

const noteServiceName = "NoteService"

// NoteService manages the shared notes of a trip. Any member may edit or
// delete any note of the trip.
type NoteService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewNoteService creates a new NoteService.
func NewNoteService(store storage.Store, logger *slog.Logger) *NoteService {
	return &NoteService{store: store, logger: logger}
}

// Mount registers the service's procedures on mux.
func (s *NoteService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	handle(mux, procedure(noteServiceName, "AddNote"), s.AddNote, opts...)
	handle(mux, procedure(noteServiceName, "UpdateNote"), s.UpdateNote, opts...)
	handle(mux, procedure(noteServiceName, "DeleteNote"), s.DeleteNote, opts...)
	handle(mux, procedure(noteServiceName, "ListNotes"), s.ListNotes, opts...)
}

// AddNote writes a new note on a trip the caller belongs to.
func (s *NoteService) AddNote(ctx context.Context, req *connect.Request[AddNoteRequest]) (*connect.Response[NoteResponse], error) {
	trip, err := memberTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	userID, _ := callerID(ctx)

	note := &models.Note{
		TripID:    trip.ID,
		Title:     strings.TrimSpace(req.Msg.Title),
		Content:   req.Msg.Content,
		CreatedBy: userID,
	}
	if err := note.Validate(); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.CreateNote(ctx, note); err != nil {
		s.logger.Error("Failed to create note", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Note added", "trip_id", trip.ID, "note_id", note.ID)
	return s.noteResponse(ctx, note)
}

// UpdateNote replaces a note's title and content.
func (s *NoteService) UpdateNote(ctx context.Context, req *connect.Request[UpdateNoteRequest]) (*connect.Response[NoteResponse], error) {
	note, err := s.memberNote(ctx, req.Msg.NoteID)
	if err != nil {
		return nil, err
	}

	note.Title = strings.TrimSpace(req.Msg.Title)
	note.Content = req.Msg.Content
	if err := note.Validate(); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.UpdateNote(ctx, note); err != nil {
		s.logger.Error("Failed to update note", "note_id", note.ID, "error", err)
		return nil, toConnectError(err)
	}

	return s.noteResponse(ctx, note)
}

// DeleteNote removes a note.
func (s *NoteService) DeleteNote(ctx context.Context, req *connect.Request[NoteRequest]) (*connect.Response[DeleteResponse], error) {
	note, err := s.memberNote(ctx, req.Msg.NoteID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteNote(ctx, note.ID); err != nil {
		s.logger.Error("Failed to delete note", "note_id", note.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Note deleted", "note_id", note.ID, "trip_id", note.TripID)
	return connect.NewResponse(&DeleteResponse{}), nil
}

// ListNotes returns a trip's notes, most recently updated first.
func (s *NoteService) ListNotes(ctx context.Context, req *connect.Request[TripRequest]) (*connect.Response[ListNotesResponse], error) {
	trip, err := memberTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	notes, err := s.store.ListNotesByTrip(ctx, trip.ID)
	if err != nil {
		s.logger.Error("Failed to list notes", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	// Resolve author names in one query
	authors := make([]string, 0, len(notes))
	for _, n := range notes {
		authors = append(authors, n.CreatedBy)
	}
	names, err := memberNames(ctx, s.store, authors)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &ListNotesResponse{Notes: make([]*Note, len(notes))}
	for i, n := range notes {
		resp.Notes[i] = toNoteMessage(n, names)
	}
	return connect.NewResponse(resp), nil
}

// memberNote loads a note and checks that the caller belongs to its trip.
func (s *NoteService) memberNote(ctx context.Context, noteID string) (*models.Note, error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}
	if noteID == "" {
		return nil, invalidArgument("note id is required")
	}

	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := memberTrip(ctx, s.store, note.TripID); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) noteResponse(ctx context.Context, note *models.Note) (*connect.Response[NoteResponse], error) {
	names, err := memberNames(ctx, s.store, []string{note.CreatedBy})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&NoteResponse{Note: toNoteMessage(note, names)}), nil
}
