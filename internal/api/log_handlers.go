package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
)

func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listReadingLogs",
		Method:      http.MethodGet,
		Path:        "/api/v1/logs",
		Summary:     "List reading logs",
		Description: "Returns the caller's reading logs, newest first",
		Tags:        []string{"Reading Logs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLogs)

	huma.Register(s.api, huma.Operation{
		OperationID: "createReadingLog",
		Method:      http.MethodPost,
		Path:        "/api/v1/logs",
		Summary:     "Add reading log",
		Description: "Records a reading session",
		Tags:        []string{"Reading Logs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateLog)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReadingLogStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/logs/stats",
		Summary:     "Reading statistics",
		Description: "Returns pages read today and distinct books read this month",
		Tags:        []string{"Reading Logs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReadingLog",
		Method:      http.MethodGet,
		Path:        "/api/v1/logs/{id}",
		Summary:     "Get reading log",
		Description: "Returns a reading log by ID",
		Tags:        []string{"Reading Logs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLog)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReadingLog",
		Method:      http.MethodPut,
		Path:        "/api/v1/logs/{id}",
		Summary:     "Update reading log",
		Description: "Replaces a reading log the caller owns",
		Tags:        []string{"Reading Logs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateLog)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReadingLog",
		Method:      http.MethodDelete,
		Path:        "/api/v1/logs/{id}",
		Summary:     "Delete reading log",
		Description: "Deletes a reading log the caller owns",
		Tags:        []string{"Reading Logs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteLog)
}

// === DTOs ===

// ReadingLogRequest is the writable portion of a reading log.
type ReadingLogRequest struct {
	BookTitle string `json:"bookTitle" validate:"required,min=1,max=500" doc:"Book title (denormalized)"`
	BookID    string `json:"bookId,omitempty" validate:"omitempty,max=100" doc:"Optional book reference"`
	Date      string `json:"date" validate:"required,max=40" doc:"Date label (\"Today\" or \"Jan 02, 2006\")"`
	PagesRead int    `json:"pagesRead" validate:"gte=0" doc:"Pages read in this session"`
	Notes     string `json:"notes,omitempty" validate:"omitempty,max=2000" doc:"Session notes"`
}

// ReadingLogResponse contains reading log data in API responses.
type ReadingLogResponse struct {
	ID        string    `json:"id" doc:"Log ID"`
	UserID    string    `json:"userId" doc:"Owner account identifier"`
	BookTitle string    `json:"bookTitle" doc:"Book title"`
	BookID    string    `json:"bookId,omitempty" doc:"Optional book reference"`
	Date      string    `json:"date" doc:"Date label"`
	PagesRead int       `json:"pagesRead" doc:"Pages read"`
	Notes     string    `json:"notes,omitempty" doc:"Session notes"`
	Timestamp time.Time `json:"timestamp" doc:"Server-assigned log time"`
	Age       string    `json:"age" doc:"Relative age, e.g. \"5m ago\""`
}

// ListLogsInput carries the caller's token.
type ListLogsInput struct {
	Authorization string `header:"Authorization"`
}

// ListLogsOutput wraps the log list for Huma.
type ListLogsOutput struct {
	Body struct {
		Logs []ReadingLogResponse `json:"logs" doc:"Reading logs, newest first"`
	}
}

// CreateLogInput wraps the create request for Huma.
type CreateLogInput struct {
	Authorization string `header:"Authorization"`
	Body          ReadingLogRequest
}

// ReadingLogOutput wraps a single log for Huma.
type ReadingLogOutput struct {
	Body ReadingLogResponse
}

// GetLogInput identifies a reading log.
type GetLogInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Log ID"`
}

// UpdateLogInput wraps the update request for Huma.
type UpdateLogInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Log ID"`
	Body          ReadingLogRequest
}

// DeleteLogInput identifies a reading log to delete.
type DeleteLogInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Log ID"`
}

// LogStatsInput carries the caller's token.
type LogStatsInput struct {
	Authorization string `header:"Authorization"`
}

// LogStatsOutput wraps the aggregate numbers for Huma.
type LogStatsOutput struct {
	Body struct {
		PagesReadToday     int `json:"pagesReadToday" doc:"Pages read today"`
		BooksReadThisMonth int `json:"booksReadThisMonth" doc:"Distinct books logged this month"`
	}
}

// === Handlers ===

func (s *Server) handleListLogs(ctx context.Context, input *ListLogsInput) (*ListLogsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	logs, err := s.logs(userID).ListByCurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	out := &ListLogsOutput{}
	out.Body.Logs = make([]ReadingLogResponse, len(logs))
	for i, l := range logs {
		out.Body.Logs[i] = mapLogResponse(l)
	}
	return out, nil
}

func (s *Server) handleCreateLog(ctx context.Context, input *CreateLogInput) (*ReadingLogOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	log, err := s.logs(userID).Create(ctx, domainLogFromRequest(input.Body))
	if err != nil {
		return nil, err
	}

	return &ReadingLogOutput{Body: mapLogResponse(log)}, nil
}

func (s *Server) handleLogStats(ctx context.Context, input *LogStatsInput) (*LogStatsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	logs := s.logs(userID)
	pages, err := logs.PagesReadToday(ctx)
	if err != nil {
		return nil, err
	}
	books, err := logs.BooksReadThisMonth(ctx)
	if err != nil {
		return nil, err
	}

	out := &LogStatsOutput{}
	out.Body.PagesReadToday = pages
	out.Body.BooksReadThisMonth = books
	return out, nil
}

func (s *Server) handleGetLog(ctx context.Context, input *GetLogInput) (*ReadingLogOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	log, err := s.logs(userID).GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ReadingLogOutput{Body: mapLogResponse(log)}, nil
}

func (s *Server) handleUpdateLog(ctx context.Context, input *UpdateLogInput) (*ReadingLogOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	current, err := s.logs(userID).GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	updated := domainLogFromRequest(input.Body)
	updated.ID = current.ID
	updated.UserID = current.UserID
	updated.Timestamp = current.Timestamp

	if err := s.logs(userID).Update(ctx, input.ID, updated); err != nil {
		return nil, err
	}

	return &ReadingLogOutput{Body: mapLogResponse(&updated)}, nil
}

func (s *Server) handleDeleteLog(ctx context.Context, input *DeleteLogInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.logs(userID).Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Reading log deleted successfully"}}, nil
}

// === Helpers ===

func domainLogFromRequest(req ReadingLogRequest) domain.ReadingLog {
	return domain.ReadingLog{
		BookTitle: req.BookTitle,
		BookID:    req.BookID,
		Date:      req.Date,
		PagesRead: req.PagesRead,
		Notes:     req.Notes,
	}
}

func mapLogResponse(l *domain.ReadingLog) ReadingLogResponse {
	return ReadingLogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		BookTitle: l.BookTitle,
		BookID:    l.BookID,
		Date:      l.Date,
		PagesRead: l.PagesRead,
		Notes:     l.Notes,
		Timestamp: l.Timestamp,
		Age:       l.FormattedTime(),
	}
}
