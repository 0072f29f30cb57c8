package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/bookhiveapp/bookhive-server/internal/errors"
	"github.com/bookhiveapp/bookhive-server/internal/http/response"
)

func (s *Server) registerCoverRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "uploadBookCover",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}/cover",
		Summary:     "Upload book cover",
		Description: "Stores a cover image for a book the caller owns and computes its BlurHash",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadCover)

	huma.Register(s.api, huma.Operation{
		OperationID: "uploadProfilePhoto",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/me/photo",
		Summary:     "Upload profile photo",
		Description: "Stores the caller's profile photo and computes its BlurHash",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadPhoto)

	// Binary serving stays on plain chi; huma is JSON-only here.
	s.router.Get("/api/v1/books/{id}/cover", s.handleServeCover)
	s.router.Get("/api/v1/users/{id}/photo", s.handleServePhoto)
}

// === DTOs ===

// UploadCoverInput carries raw image bytes for a book cover.
type UploadCoverInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	RawBody       []byte `contentType:"image/jpeg,image/png,image/webp"`
}

// UploadImageResponse describes a stored image.
type UploadImageResponse struct {
	URL      string `json:"url" doc:"Serving URL"`
	BlurHash string `json:"blurHash,omitempty" doc:"Placeholder hash"`
	Width    int    `json:"width" doc:"Image width"`
	Height   int    `json:"height" doc:"Image height"`
}

// UploadImageOutput wraps the upload response for Huma.
type UploadImageOutput struct {
	Body UploadImageResponse
}

// UploadPhotoInput carries raw image bytes for a profile photo.
type UploadPhotoInput struct {
	Authorization string `header:"Authorization"`
	RawBody       []byte `contentType:"image/jpeg,image/png,image/webp"`
}

// === Handlers ===

func (s *Server) handleUploadCover(ctx context.Context, input *UploadCoverInput) (*UploadImageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if len(input.RawBody) == 0 || len(input.RawBody) > MaxUploadSize {
		return nil, huma.Error400BadRequest("Image must be between 1 byte and 10 MB")
	}

	book, err := s.books(userID).GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if book.UserID != userID {
		return nil, errors.Forbidden("Unauthorized to edit this book")
	}

	result, err := s.deps.CoverProcessor.Process(book.ID, input.RawBody)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid image data", err)
	}

	url := "/api/v1/books/" + book.ID + "/cover"
	book.CoverImageURL = url
	book.CoverBlurHash = result.BlurHash
	if err := s.deps.Store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}

	return &UploadImageOutput{
		Body: UploadImageResponse{
			URL:      url,
			BlurHash: result.BlurHash,
			Width:    result.Width,
			Height:   result.Height,
		},
	}, nil
}

func (s *Server) handleUploadPhoto(ctx context.Context, input *UploadPhotoInput) (*UploadImageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if len(input.RawBody) == 0 || len(input.RawBody) > MaxUploadSize {
		return nil, huma.Error400BadRequest("Image must be between 1 byte and 10 MB")
	}

	result, err := s.deps.PhotoProcessor.Process(userID, input.RawBody)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid image data", err)
	}

	url := "/api/v1/users/" + userID + "/photo"
	err = s.users(userID).EditProfile(ctx, userID, map[string]any{
		"photoUrl":      url,
		"photoBlurHash": result.BlurHash,
	})
	if err != nil {
		return nil, err
	}

	return &UploadImageOutput{
		Body: UploadImageResponse{
			URL:      url,
			BlurHash: result.BlurHash,
			Width:    result.Width,
			Height:   result.Height,
		},
	}, nil
}

func (s *Server) handleServeCover(w http.ResponseWriter, r *http.Request) {
	s.serveImage(w, r, s.deps.Covers, chi.URLParam(r, "id"))
}

func (s *Server) handleServePhoto(w http.ResponseWriter, r *http.Request) {
	s.serveImage(w, r, s.deps.Photos, chi.URLParam(r, "id"))
}

// serveImage writes a stored image with ETag revalidation.
func (s *Server) serveImage(w http.ResponseWriter, r *http.Request, storage imageStorage, id string) {
	if id == "" || !storage.Exists(id) {
		response.NotFound(w, "Image not found", s.logger)
		return
	}

	hash, err := storage.Hash(id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	etag := `"` + hash + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", CacheOneDay)

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := storage.Get(id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// imageStorage is the slice of images.Storage the serving path needs.
type imageStorage interface {
	Exists(id string) bool
	Hash(id string) (string, error)
	Get(id string) ([]byte, error)
}
