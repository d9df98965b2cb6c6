package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vaultguard/vault-api/internal/core/domain"
	"github.com/vaultguard/vault-api/internal/crypto"
)

// cheapParams keeps Argon2id fast in tests.
var cheapParams = crypto.Params{Time: 1, Memory: 8 * 1024, Threads: 1}

// --- users ---

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrConflict
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.LastLogin = time.Now().UTC()
		return nil
	}
	return domain.ErrNotFound
}

func (r *stubUserRepo) UpdateCredentials(_ context.Context, id string, verifier, salt []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Verifier = verifier
		u.Salt = salt
		return nil
	}
	return domain.ErrNotFound
}

// --- reset tokens ---

type stubTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.PasswordResetToken
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]*domain.PasswordResetToken)}
}

func (r *stubTokenRepo) Create(_ context.Context, t *domain.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *t
	r.tokens[t.ID] = &clone
	return nil
}

func (r *stubTokenRepo) FindByToken(_ context.Context, raw string) (*domain.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Token == raw {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubTokenRepo) Consume(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[id]; ok && !t.Used {
		t.Used = true
		return nil
	}
	return domain.ErrNotFound
}

func (r *stubTokenRepo) InvalidateForUser(_ context.Context, userID, exceptID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.UserID == userID && t.ID != exceptID && !t.Used {
			t.Used = true
		}
	}
	return nil
}

func (r *stubTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.tokens {
		if now.After(t.ExpiresAt) {
			delete(r.tokens, id)
			n++
		}
	}
	return n, nil
}

// --- sessions ---

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *session
	s.sessions[session.ID] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return nil, domain.ErrUnauthorized
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// --- key cache ---

type stubKeyCache struct {
	mu   sync.Mutex
	keys map[string][]byte
}

func newStubKeyCache() *stubKeyCache {
	return &stubKeyCache{keys: make(map[string][]byte)}
}

func (c *stubKeyCache) Put(sessionID string, key []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[sessionID] = key
}

func (c *stubKeyCache) Get(sessionID string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, ok := c.keys[sessionID]
	return key, ok
}

func (c *stubKeyCache) Delete(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keys, sessionID)
}

// --- login attempts ---

type stubAttemptStore struct {
	mu     sync.Mutex
	counts map[string]int64
	fail   bool
}

func newStubAttemptStore() *stubAttemptStore {
	return &stubAttemptStore{counts: make(map[string]int64)}
}

func (s *stubAttemptStore) Increment(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return 0, context.DeadlineExceeded
	}
	s.counts[key]++
	return s.counts[key], nil
}

func (s *stubAttemptStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, key)
	return nil
}

// expireWindow simulates the sliding window elapsing for every key.
func (s *stubAttemptStore) expireWindow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = make(map[string]int64)
}

// --- notifier ---

type sentMessage struct {
	Email, Token, URL string
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *stubNotifier) SendPasswordResetMessage(_ context.Context, email, token, resetURL string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{Email: email, Token: token, URL: resetURL})
	return nil
}

func (n *stubNotifier) lastToken() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return ""
	}
	return n.sent[len(n.sent)-1].Token
}

// --- activity recorder / repo ---

type stubRecorder struct {
	mu      sync.Mutex
	entries []domain.ActivityLogEntry
}

func (r *stubRecorder) Record(entry domain.ActivityLogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *stubRecorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

func (r *stubRecorder) hasAction(action string) bool {
	for _, a := range r.actions() {
		if a == action {
			return true
		}
	}
	return false
}

type stubActivityRepo struct {
	mu      sync.Mutex
	entries []domain.ActivityLogEntry
}

func (r *stubActivityRepo) Append(_ context.Context, entry *domain.ActivityLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubActivityRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.ActivityLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ActivityLogEntry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

// --- credentials ---

type stubCredentialRepo struct {
	mu      sync.Mutex
	records map[string]*domain.CredentialRecord
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{records: make(map[string]*domain.CredentialRecord)}
}

func (r *stubCredentialRepo) Create(_ context.Context, rec *domain.CredentialRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *rec
	r.records[rec.ID] = &clone
	return nil
}

func (r *stubCredentialRepo) FindByID(_ context.Context, id, ownerID string) (*domain.CredentialRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (r *stubCredentialRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.CredentialRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CredentialRecord
	for _, rec := range r.records {
		if rec.OwnerID == ownerID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubCredentialRepo) Update(_ context.Context, rec *domain.CredentialRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.records[rec.ID]
	if !ok || existing.OwnerID != rec.OwnerID {
		return domain.ErrNotFound
	}
	clone := *rec
	r.records[rec.ID] = &clone
	return nil
}

func (r *stubCredentialRepo) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

// corrupt replaces a stored envelope with garbage of valid base64 shape.
func (r *stubCredentialRepo) corrupt(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok {
		rec.SecretEnvelope = strings.Repeat("QUFBQQ==", 8)
	}
}

// --- alerts ---

type stubAlertRepo struct {
	mu     sync.Mutex
	alerts map[string]*domain.SecurityAlert
}

func newStubAlertRepo() *stubAlertRepo {
	return &stubAlertRepo{alerts: make(map[string]*domain.SecurityAlert)}
}

func (r *stubAlertRepo) Create(_ context.Context, alert *domain.SecurityAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *alert
	r.alerts[alert.ID] = &clone
	return nil
}

func (r *stubAlertRepo) ListByUser(_ context.Context, userID string) ([]domain.SecurityAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SecurityAlert
	for _, a := range r.alerts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAlertRepo) FindOpen(_ context.Context, userID string, kind domain.AlertKind, credentialID string) (*domain.SecurityAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.UserID == userID && a.Kind == kind && a.CredentialID == credentialID && !a.Resolved {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubAlertRepo) Resolve(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.alerts[id]
	if !ok || a.UserID != userID {
		return domain.ErrNotFound
	}
	a.Resolved = true
	return nil
}

// --- breach oracle ---

type stubOracle struct {
	breached    map[string]bool
	unavailable bool
	calls       int
}

func (o *stubOracle) CheckBreach(_ context.Context, password string) (bool, error) {
	o.calls++
	if o.unavailable {
		return false, domain.ErrBreachCheckUnavailable
	}
	return o.breached[password], nil
}
