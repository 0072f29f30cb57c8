package sse

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhiveapp/bookhive-server/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	m := NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return m
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()

	select {
	case event := <-c.EventChan:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()

	select {
	case event := <-c.EventChan:
		t.Fatalf("unexpected event: %s", event.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcast_OwnedEventsReachOwnerOnly(t *testing.T) {
	m := newTestManager(t)

	alice, err := m.Connect("user-alice")
	require.NoError(t, err)
	bob, err := m.Connect("user-bob")
	require.NoError(t, err)

	m.Emit(store.ChangeEvent{
		Collection: store.BooksCollection,
		ID:         "book-1",
		Op:         store.OpCreate,
		Owner:      "user-alice",
	})

	event := receive(t, alice)
	assert.Equal(t, EventBookCreated, event.Type)
	assertNoEvent(t, bob)
}

func TestEmit_InternalCollectionsAreInvisible(t *testing.T) {
	m := newTestManager(t)

	client, err := m.Connect("user-alice")
	require.NoError(t, err)

	m.Emit(store.ChangeEvent{
		Collection: store.SessionsCollection,
		ID:         "session-1",
		Op:         store.OpCreate,
		Owner:      "user-alice",
	})
	assertNoEvent(t, client)
}

func TestEmit_MapsLogAndProfileChanges(t *testing.T) {
	m := newTestManager(t)

	client, err := m.Connect("user-alice")
	require.NoError(t, err)

	m.Emit(store.ChangeEvent{Collection: store.LogsCollection, ID: "log-1", Op: store.OpDelete, Owner: "user-alice"})
	assert.Equal(t, EventLogDeleted, receive(t, client).Type)

	m.Emit(store.ChangeEvent{Collection: store.ProfilesCollection, ID: "user-alice", Op: store.OpUpdate, Owner: "user-alice"})
	assert.Equal(t, EventProfileUpdated, receive(t, client).Type)
}

func TestDisconnect_RemovesClient(t *testing.T) {
	m := newTestManager(t)

	client, err := m.Connect("user-alice")
	require.NoError(t, err)
	assert.Equal(t, 1, m.ClientCount())

	m.Disconnect(client.ID)
	assert.Equal(t, 0, m.ClientCount())

	// Disconnecting an unknown client is a no-op.
	m.Disconnect(client.ID)
}

func TestEmitToUser_TargetsOneUser(t *testing.T) {
	m := newTestManager(t)

	alice, err := m.Connect("user-alice")
	require.NoError(t, err)
	bob, err := m.Connect("user-bob")
	require.NoError(t, err)

	m.EmitToUser("user-bob", NewHeartbeatEvent())

	assert.Equal(t, EventHeartbeat, receive(t, bob).Type)
	assertNoEvent(t, alice)
}
