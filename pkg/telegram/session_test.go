package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLazyCreation(t *testing.T) {
	s := NewSessionStore()

	session := s.Get(42)
	require.NotNil(t, session)
	assert.Nil(t, session.Pending)

	// same session instance on repeat access
	s.Update(42, func(sess *Session) { sess.Language = "pl" })
	assert.Equal(t, "pl", s.Get(42).Language)
}

func TestPendingOverwrite(t *testing.T) {
	s := NewSessionStore()

	s.SetPending(1, PendingOperation{Kind: OpDocumentAnalyze, Name: "document_analyze", Cost: 5, CreatedAt: time.Now()})
	s.SetPending(1, PendingOperation{Kind: OpPhotoTranslate, Name: "photo_translate", Cost: 8, CreatedAt: time.Now()})

	// only the newest pending operation survives
	op, ok := s.TakePending(1)
	require.True(t, ok)
	assert.Equal(t, OpPhotoTranslate, op.Kind)
	assert.Equal(t, 8, op.Cost)
}

func TestPendingResolvedExactlyOnce(t *testing.T) {
	s := NewSessionStore()
	s.SetPending(1, PendingOperation{Kind: OpMessage, Name: "message", Cost: 3, CreatedAt: time.Now()})

	_, ok := s.TakePending(1)
	require.True(t, ok)

	// a second confirm (or a cancel racing a confirm) finds nothing
	_, ok = s.TakePending(1)
	assert.False(t, ok)
}

func TestPendingIsPerUser(t *testing.T) {
	s := NewSessionStore()
	s.SetPending(1, PendingOperation{Kind: OpMessage, Name: "message", Cost: 3, CreatedAt: time.Now()})

	_, ok := s.TakePending(2)
	assert.False(t, ok)

	_, ok = s.TakePending(1)
	assert.True(t, ok)
}

func TestResolvePendingMismatchKeepsLiveOperation(t *testing.T) {
	s := NewSessionStore()
	now := time.Now()
	s.SetPending(1, PendingOperation{Kind: OpPhotoAnalyze, Name: "photo_analyze", Cost: 8, CreatedAt: now})

	// a leftover confirm button for an older operation must not
	// consume the one that is actually pending
	_, status := s.ResolvePending(1, "document_translate", now)
	assert.Equal(t, pendingMismatch, status)

	op, status := s.ResolvePending(1, "photo_analyze", now)
	require.Equal(t, pendingReady, status)
	assert.Equal(t, OpPhotoAnalyze, op.Kind)
}

func TestResolvePendingStates(t *testing.T) {
	now := time.Now()

	s := NewSessionStore()
	_, status := s.ResolvePending(1, "message", now)
	assert.Equal(t, pendingMissing, status)

	s.SetPending(1, PendingOperation{Kind: OpMessage, Name: "message", CreatedAt: now.Add(-11 * time.Minute)})
	_, status = s.ResolvePending(1, "message", now)
	assert.Equal(t, pendingExpired, status)

	// an expired match is gone for good
	_, status = s.ResolvePending(1, "message", now)
	assert.Equal(t, pendingMissing, status)

	s.SetPending(1, PendingOperation{Kind: OpMessage, Name: "message", Cost: 3, CreatedAt: now})
	op, status := s.ResolvePending(1, "message", now)
	require.Equal(t, pendingReady, status)
	assert.Equal(t, 3, op.Cost)

	// resolved exactly once
	_, status = s.ResolvePending(1, "message", now)
	assert.Equal(t, pendingMissing, status)
}

func TestPendingExpiry(t *testing.T) {
	now := time.Now()
	fresh := &PendingOperation{CreatedAt: now.Add(-time.Minute)}
	stale := &PendingOperation{CreatedAt: now.Add(-11 * time.Minute)}

	assert.False(t, fresh.Expired(now))
	assert.True(t, stale.Expired(now))
}

func TestSessionClear(t *testing.T) {
	s := NewSessionStore()
	s.Update(7, func(sess *Session) {
		sess.Language = "ru"
		sess.Pending = &PendingOperation{Kind: OpMessage}
	})

	s.Clear(7)

	session := s.Get(7)
	assert.Empty(t, session.Language)
	assert.Nil(t, session.Pending)
}

func TestMenuStateStored(t *testing.T) {
	s := NewSessionStore()
	s.SetMenu(3, MenuState{Screen: "credits", MessageID: 100})

	menu := s.Get(3).Menu
	assert.Equal(t, "credits", menu.Screen)
	assert.Equal(t, 100, menu.MessageID)
}
