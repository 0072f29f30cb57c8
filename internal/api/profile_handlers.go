package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current profile",
		Description: "Returns the caller's profile document",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "editProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Edit profile",
		Description: "Applies a partial update to the caller's profile. An empty field map is rejected.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleEditProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get profile",
		Description: "Returns a profile document by account identifier",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfile)
}

// === DTOs ===

// ProfileResponse contains profile data in API responses. The stored
// password never leaves the server.
type ProfileResponse struct {
	UserID        string `json:"userId" doc:"Account identifier"`
	UserName      string `json:"userName" doc:"Display name"`
	Email         string `json:"email" doc:"Email address"`
	PhotoURL      string `json:"photoUrl,omitempty" doc:"Profile photo URL"`
	PhotoBlurHash string `json:"photoBlurHash,omitempty" doc:"Photo placeholder hash"`
	Roles         bool   `json:"roles" doc:"Admin role flag"`
}

// GetCurrentProfileInput carries the caller's token.
type GetCurrentProfileInput struct {
	Authorization string `header:"Authorization"`
}

// ProfileOutput wraps a profile for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// EditProfileInput wraps the partial update for Huma. The body is a free
// field map; the store rejects unknown field names.
type EditProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          map[string]any
}

// GetProfileInput identifies a profile.
type GetProfileInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Account identifier"`
}

// === Handlers ===

func (s *Server) handleGetCurrentProfile(ctx context.Context, input *GetCurrentProfileInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	profile, err := s.users(userID).GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapProfileResponse(profile)}, nil
}

func (s *Server) handleEditProfile(ctx context.Context, input *EditProfileInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	users := s.users(userID)
	if err := users.EditProfile(ctx, userID, input.Body); err != nil {
		return nil, err
	}

	profile, err := users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapProfileResponse(profile)}, nil
}

func (s *Server) handleGetProfile(ctx context.Context, input *GetProfileInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	profile, err := s.users(userID).GetProfile(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapProfileResponse(profile)}, nil
}

// === Helpers ===

func mapProfileResponse(p *domain.UserProfile) ProfileResponse {
	return ProfileResponse{
		UserID:        p.ID,
		UserName:      p.UserName,
		Email:         p.Email,
		PhotoURL:      p.PhotoURL,
		PhotoBlurHash: p.PhotoBlurHash,
		Roles:         p.Roles,
	}
}
