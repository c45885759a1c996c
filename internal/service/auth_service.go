package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/doctor-booking/internal/model"
	"github.com/iliyamo/doctor-booking/internal/repository"
	"github.com/iliyamo/doctor-booking/internal/utils"
)

// SessionStore persists the single active session.
type SessionStore interface {
	Load(ctx context.Context) (*model.Session, error)
	Save(ctx context.Context, s model.Session) error
	Clear(ctx context.Context) error
}

// CredentialLedger persists the full list of registered accounts.
type CredentialLedger interface {
	List(ctx context.Context) ([]model.Credential, error)
	Save(ctx context.Context, creds []model.Credential) error
}

// ProfilePatch lists the profile fields a caller may change. Nil fields are
// left untouched.
type ProfilePatch struct {
	Name *string
}

// AuthService is the Auth Manager. It owns the credential ledger and the
// session record and keeps the active session in memory between calls.
type AuthService struct {
	sessions SessionStore
	users    CredentialLedger

	// HashSecrets makes SignUp store bcrypt hashes instead of the secret as
	// given. Sign-in accepts both forms either way.
	HashSecrets bool
	HashCost    int
	Now         Clock

	mu      sync.Mutex
	current *model.Session
}

func NewAuthService(sessions SessionStore, users CredentialLedger) *AuthService {
	return &AuthService{sessions: sessions, users: users, HashCost: 10, Now: systemClock}
}

// Bootstrap loads the persisted session, if any, and makes it current. The
// stored session is trusted as previously authenticated.
func (s *AuthService) Bootstrap(ctx context.Context) (*model.Session, error) {
	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
	return copySession(sess), nil
}

// Current returns the active session or nil when signed out.
func (s *AuthService) Current() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySession(s.current)
}

// SignUp registers a new patient account and signs it in. Sign-up always
// finishes with a regular SignIn against the ledger that was just written.
func (s *AuthService) SignUp(ctx context.Context, name, email, secret string) (model.Session, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name == "":
		return model.Session{}, invalid("name", "required")
	case email == "":
		return model.Session{}, invalid("email", "required")
	case secret == "":
		return model.Session{}, invalid("password", "required")
	}

	s.mu.Lock()
	creds, err := s.users.List(ctx)
	if err != nil {
		s.mu.Unlock()
		return model.Session{}, fmt.Errorf("load users: %w", err)
	}
	for _, c := range creds {
		if strings.EqualFold(c.Email, email) {
			s.mu.Unlock()
			return model.Session{}, ErrDuplicateEmail
		}
	}

	stored := secret
	if s.HashSecrets {
		if stored, err = utils.HashSecret(secret, s.HashCost); err != nil {
			s.mu.Unlock()
			return model.Session{}, fmt.Errorf("hash secret: %w", err)
		}
	}

	now := s.now()
	ms := nextMillis(now.UnixMilli(), func(ms int64) bool {
		id := utils.TimestampID("user", ms)
		for _, c := range creds {
			if c.ID == id {
				return true
			}
		}
		return false
	})
	cred := model.Credential{
		User: model.User{
			ID:        utils.TimestampID("user", ms),
			Name:      name,
			Email:     email,
			Role:      model.RolePatient,
			CreatedAt: now,
		},
		Secret: stored,
		Hashed: s.HashSecrets,
	}
	if err := s.users.Save(ctx, append(creds, cred)); err != nil {
		s.mu.Unlock()
		return model.Session{}, fmt.Errorf("save users: %w", err)
	}
	s.mu.Unlock()

	return s.SignIn(ctx, email, secret)
}

// SignIn matches email case-insensitively and secret exactly against the
// ledger, then persists the matching user, minus its secret, as the session.
func (s *AuthService) SignIn(ctx context.Context, email, secret string) (model.Session, error) {
	email = strings.TrimSpace(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.users.List(ctx)
	if err != nil {
		return model.Session{}, fmt.Errorf("load users: %w", err)
	}
	for _, c := range creds {
		if !strings.EqualFold(c.Email, email) || !utils.SecretMatches(c.Secret, secret, c.Hashed) {
			continue
		}
		sess := c.User
		if err := s.sessions.Save(ctx, sess); err != nil {
			return model.Session{}, fmt.Errorf("save session: %w", err)
		}
		s.current = &sess
		return sess, nil
	}
	return model.Session{}, ErrInvalidCredentials
}

// SignOut deletes the stored session. The in-memory session is only dropped
// once the store delete succeeded.
func (s *AuthService) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSignOut, err)
	}
	s.current = nil
	return nil
}

// UpdateProfile applies patch to the ledger record of the signed-in user and
// to the session, persisting both, and returns the new session. Which fields
// may change is decided by the caller.
func (s *AuthService) UpdateProfile(ctx context.Context, patch ProfilePatch) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.Session{}, ErrNoSession
	}
	creds, err := s.users.List(ctx)
	if err != nil {
		return model.Session{}, fmt.Errorf("load users: %w", err)
	}
	idx := -1
	for i, c := range creds {
		if c.ID == s.current.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Session{}, fmt.Errorf("user %s: %w", s.current.ID, repository.ErrNotFound)
	}

	sess := *s.current
	if patch.Name != nil {
		sess.Name = *patch.Name
		creds[idx].Name = *patch.Name
	}
	if err := s.users.Save(ctx, creds); err != nil {
		return model.Session{}, fmt.Errorf("save users: %w", err)
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return model.Session{}, fmt.Errorf("save session: %w", err)
	}
	s.current = &sess
	return sess, nil
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return systemClock()
	}
	return s.Now().UTC()
}

func copySession(s *model.Session) *model.Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
