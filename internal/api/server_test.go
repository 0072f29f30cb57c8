package api

import (
	"context"
	"encoding/hex"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/bookhiveapp/bookhive-server/internal/account"
	"github.com/bookhiveapp/bookhive-server/internal/auth"
	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/media/covers"
	"github.com/bookhiveapp/bookhive-server/internal/media/images"
	"github.com/bookhiveapp/bookhive-server/internal/search"
	"github.com/bookhiveapp/bookhive-server/internal/sse"
	"github.com/bookhiveapp/bookhive-server/internal/store"
)

// testEnvelope mirrors the client's view of a wrapped response.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

type testServer struct {
	*Server
	api      humatest.TestAPI
	st       *store.Store
	sse      *sse.Manager
	shutdown func()
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	manager := sse.NewManager(logger)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		manager.Start(ctx)
		close(done)
	}()

	st, err := store.New(t.TempDir(), logger, manager)
	require.NoError(t, err)

	idx, err := search.NewSearchIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	st.SetSearchIndexer(idx)

	keyHex := hex.EncodeToString(make([]byte, 32))
	tokens, err := auth.NewTokenService(keyHex, 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	accounts := account.NewService(st, tokens, &account.LogResetSender{Logger: logger}, logger)

	coverStorage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)
	photoStorage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)
	coverProc := images.NewProcessor(coverStorage, logger)
	photoProc := images.NewProcessor(photoStorage, logger)

	s := NewServer(Dependencies{
		Store:           st,
		Accounts:        accounts,
		Tokens:          tokens,
		Search:          idx,
		SSEManager:      manager,
		Covers:          coverStorage,
		CoverProcessor:  coverProc,
		PhotoProcessor:  photoProc,
		Photos:          photoStorage,
		CoverDownloader: covers.NewDownloader(coverProc, logger),
		Instance: &domain.Instance{
			ID:      "instance-test",
			Name:    "Test BookHive",
			Version: "1.0.0",
		},
		Logger: logger,
	})

	ts := &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		st:     st,
		sse:    manager,
		shutdown: func() {
			cancel()
			<-done
			_ = idx.Close()
			_ = st.Close()
		},
	}
	t.Cleanup(ts.shutdown)
	return ts
}

// registerUser creates an account via the API and returns its token and ID.
func (ts *testServer) registerUser(t *testing.T, email, userName string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    email,
		"password": "TestPassword123!",
		"userName": userName,
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var reg testEnvelope[RegisterResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &reg))

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, "login failed: %s", resp.Body.String())

	var login testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &login))

	return "Bearer " + login.Data.AccessToken, reg.Data.UserID
}

func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Data
}
