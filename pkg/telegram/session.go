package telegram

import (
	"sync"
	"time"
)

// OpKind identifies a resumable credit-gated operation.
type OpKind string

const (
	OpMessage           OpKind = "message"
	OpDocumentAnalyze   OpKind = "document_analyze"
	OpDocumentTranslate OpKind = "document_translate"
	OpPhotoAnalyze      OpKind = "photo_analyze"
	OpPhotoTranslate    OpKind = "photo_translate"
	OpTextTranslate     OpKind = "text_translate"
)

// pendingTTL bounds how long a stored confirmation stays valid.
const pendingTTL = 10 * time.Minute

// OpArgs carries everything needed to re-run an operation after the
// user confirms it. Only the fields for the operation's kind are set.
type OpArgs struct {
	Text       string // message text, text to translate
	FileID     string // telegram file id for document/photo operations
	FileName   string
	FileSize   int64
	TargetLang string // translation target
}

// PendingOperation is the single operation awaiting user confirmation.
type PendingOperation struct {
	Kind      OpKind
	Name      string // operation descriptor used in confirm_operation_<name>
	Cost      int
	Args      OpArgs
	CreatedAt time.Time
}

// Expired reports whether the confirmation window has passed.
func (p *PendingOperation) Expired(now time.Time) bool {
	return now.Sub(p.CreatedAt) > pendingTTL
}

// MenuState tracks the current menu screen and its message for in-place edits.
type MenuState struct {
	Screen    string
	MessageID int
}

// Session holds per-user conversational state between updates.
type Session struct {
	Language        string
	Mode            string
	Model           string
	Name            string
	ChatInitialized bool

	Pending *PendingOperation
	Menu    MenuState

	// last uploaded files, waiting for the user to pick an operation
	LastDocument *OpArgs
	LastPhoto    *OpArgs
}

// SessionStore manages per-user sessions. Sessions are created lazily
// on first access and hold no credit balance; balances always come from
// the ledger.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*Session),
	}
}

// Get returns the session for a user, creating an empty one when absent.
func (s *SessionStore) Get(userID int64) *Session {
	s.mu.RLock()
	session, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return session
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok = s.sessions[userID]; ok {
		return session
	}
	session = &Session{}
	s.sessions[userID] = session
	return session
}

// Update applies fn to the user's session under the write lock.
func (s *SessionStore) Update(userID int64, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		session = &Session{}
		s.sessions[userID] = session
	}
	fn(session)
}

// SetPending stores a pending operation, replacing any previous one.
// A user has at most one operation awaiting confirmation.
func (s *SessionStore) SetPending(userID int64, op PendingOperation) {
	s.Update(userID, func(session *Session) {
		session.Pending = &op
	})
}

// TakePending removes and returns the pending operation. The second
// return is false when nothing was pending, so a double confirm or a
// confirm racing a cancel resolves the operation exactly once.
func (s *SessionStore) TakePending(userID int64) (PendingOperation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok || session.Pending == nil {
		return PendingOperation{}, false
	}
	op := *session.Pending
	session.Pending = nil
	return op, true
}

// pendingStatus classifies a confirmation attempt against the stored
// pending operation.
type pendingStatus int

const (
	pendingMissing pendingStatus = iota
	pendingMismatch
	pendingExpired
	pendingReady
)

// ResolvePending matches a confirmation against the pending operation.
// A name mismatch leaves the stored operation untouched, so a stale
// button from an older confirmation prompt cannot destroy a live one.
// A matching operation is removed; an expired match is removed too and
// reported as expired.
func (s *SessionStore) ResolvePending(userID int64, name string, now time.Time) (PendingOperation, pendingStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok || session.Pending == nil {
		return PendingOperation{}, pendingMissing
	}
	if session.Pending.Name != name {
		return PendingOperation{}, pendingMismatch
	}
	op := *session.Pending
	session.Pending = nil
	if op.Expired(now) {
		return op, pendingExpired
	}
	return op, pendingReady
}

// SetMenu records the active menu screen and message id.
func (s *SessionStore) SetMenu(userID int64, state MenuState) {
	s.Update(userID, func(session *Session) {
		session.Menu = state
	})
}

// Clear drops the user's session entirely.
func (s *SessionStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
