package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createBook(t *testing.T, ts *testServer, token, title string) BookResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/books",
		"Authorization: "+token,
		map[string]any{
			"title":      title,
			"author":     "Ursula K. Le Guin",
			"genre":      "Fantasy",
			"totalPages": 183,
		})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decodeData[BookResponse](t, resp.Body.Bytes())
}

func TestBookCRUD(t *testing.T) {
	ts := newTestServer(t)
	token, userID := ts.registerUser(t, "alice@example.com", "Alice")

	book := createBook(t, ts, token, "A Wizard of Earthsea")
	assert.NotEmpty(t, book.ID)
	assert.Equal(t, userID, book.UserID)
	assert.WithinDuration(t, time.Now(), book.AddedTimestamp, 5*time.Second)
	assert.NotEmpty(t, book.AddedDate)

	resp := ts.api.Get("/api/v1/books/"+book.ID, "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeData[BookResponse](t, resp.Body.Bytes())
	assert.Equal(t, book.ID, got.ID)

	resp = ts.api.Put("/api/v1/books/"+book.ID,
		"Authorization: "+token,
		map[string]any{
			"title":      "The Tombs of Atuan",
			"author":     "Ursula K. Le Guin",
			"genre":      "Fantasy",
			"totalPages": 180,
		})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decodeData[BookResponse](t, resp.Body.Bytes())
	assert.Equal(t, "The Tombs of Atuan", updated.Title)
	assert.Equal(t, userID, updated.UserID, "owner survives update")

	resp = ts.api.Delete("/api/v1/books/"+book.ID, "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/books/"+book.ID, "Authorization: "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "Book not found")
}

func TestListBooks_ScopedToCallerNewestFirst(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, _ := ts.registerUser(t, "alice@example.com", "Alice")
	bobToken, _ := ts.registerUser(t, "bob@example.com", "Bob")

	createBook(t, ts, aliceToken, "First")
	createBook(t, ts, aliceToken, "Second")
	createBook(t, ts, bobToken, "Bob's Book")

	resp := ts.api.Get("/api/v1/books", "Authorization: "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var out testEnvelope[struct {
		Books []BookResponse `json:"books"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Len(t, out.Data.Books, 2)
	assert.Equal(t, "Second", out.Data.Books[0].Title)
	assert.Equal(t, "First", out.Data.Books[1].Title)
}

func TestBookOwnership(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, _ := ts.registerUser(t, "alice@example.com", "Alice")
	bobToken, _ := ts.registerUser(t, "bob@example.com", "Bob")

	book := createBook(t, ts, aliceToken, "Alice's Book")

	t.Run("reads are not ownership checked", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/books/"+book.ID, "Authorization: "+bobToken)
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("update by non-owner is forbidden", func(t *testing.T) {
		resp := ts.api.Put("/api/v1/books/"+book.ID,
			"Authorization: "+bobToken,
			map[string]any{
				"title":      "Hijacked",
				"author":     "Bob",
				"totalPages": 1,
			})
		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Contains(t, resp.Body.String(), "Unauthorized to edit this book")
	})

	t.Run("delete by non-owner is forbidden", func(t *testing.T) {
		resp := ts.api.Delete("/api/v1/books/"+book.ID, "Authorization: "+bobToken)
		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Contains(t, resp.Body.String(), "Unauthorized to delete this book")
	})
}

func TestBooks_RequireAuthentication(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/books")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/books", map[string]any{
		"title":      "No Auth",
		"author":     "Anon",
		"totalPages": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/books", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateBook_RejectsInvalidInput(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com", "Alice")

	resp := ts.api.Post("/api/v1/books",
		"Authorization: "+token,
		map[string]any{
			"title":      "",
			"author":     "Someone",
			"totalPages": 10,
		})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Post("/api/v1/books",
		"Authorization: "+token,
		map[string]any{
			"title":      "Negative Pages",
			"author":     "Someone",
			"totalPages": -1,
		})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
