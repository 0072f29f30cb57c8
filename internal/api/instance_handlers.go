package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerInstanceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getInstance",
		Method:      http.MethodGet,
		Path:        "/api/v1/instance",
		Summary:     "Get instance info",
		Description: "Returns this server's identity, the same record advertised over mDNS",
		Tags:        []string{"System"},
	}, s.handleGetInstance)
}

// InstanceOutput wraps the instance record for Huma.
type InstanceOutput struct {
	Body struct {
		ID        string    `json:"id" doc:"Instance identifier"`
		Name      string    `json:"name" doc:"Instance name"`
		Version   string    `json:"version" doc:"Server version"`
		LocalURL  string    `json:"localUrl,omitempty" doc:"LAN base URL"`
		RemoteURL string    `json:"remoteUrl,omitempty" doc:"Public base URL"`
		CreatedAt time.Time `json:"createdAt" doc:"First boot time"`
	}
}

func (s *Server) handleGetInstance(_ context.Context, _ *struct{}) (*InstanceOutput, error) {
	if s.deps.Instance == nil {
		return nil, huma.Error404NotFound("Server instance configuration not found")
	}

	out := &InstanceOutput{}
	out.Body.ID = s.deps.Instance.ID
	out.Body.Name = s.deps.Instance.Name
	out.Body.Version = s.deps.Instance.Version
	out.Body.LocalURL = s.deps.Instance.LocalURL
	out.Body.RemoteURL = s.deps.Instance.RemoteURL
	out.Body.CreatedAt = s.deps.Instance.CreatedAt
	return out, nil
}
