package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryService is an in-process identity implementation for tests and the
// development backend. Passwords are compared in plain text; real hashing
// belongs to the remote service.
type MemoryService struct {
	mu       sync.Mutex
	users    map[string]memoryUser // keyed by email
	sessions map[string]string     // token -> user id
	nextID   int
}

type memoryUser struct {
	user     User
	password string
}

func NewMemoryService() *MemoryService {
	return &MemoryService{
		users:    make(map[string]memoryUser),
		sessions: make(map[string]string),
	}
}

func (s *MemoryService) Register(_ context.Context, email, password, name string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.TrimSpace(strings.ToLower(email))
	if _, exists := s.users[email]; exists {
		return User{}, ErrUserExists
	}
	s.nextID++
	u := User{ID: fmt.Sprintf("user-%d", s.nextID), Email: email, Name: name}
	s.users[email] = memoryUser{user: u, password: password}
	return u, nil
}

func (s *MemoryService) CreateEmailSession(_ context.Context, email, password string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.TrimSpace(strings.ToLower(email))
	mu, ok := s.users[email]
	if !ok || mu.password != password {
		return Session{}, ErrInvalidCredentials
	}
	token := fmt.Sprintf("session-%s-%d", mu.user.ID, len(s.sessions)+1)
	s.sessions[token] = mu.user.ID
	return Session{ID: token, UserID: mu.user.ID, Token: token}, nil
}

func (s *MemoryService) CurrentUser(_ context.Context, sessionToken string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.sessions[sessionToken]
	if !ok {
		return User{}, ErrNoSession
	}
	for _, mu := range s.users {
		if mu.user.ID == userID {
			return mu.user, nil
		}
	}
	return User{}, ErrNoSession
}

func (s *MemoryService) DeleteSession(_ context.Context, sessionToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionToken]; !ok {
		return ErrNoSession
	}
	delete(s.sessions, sessionToken)
	return nil
}

func (s *MemoryService) UpdateName(ctx context.Context, sessionToken, name string) (User, error) {
	u, err := s.CurrentUser(ctx, sessionToken)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	mu := s.users[u.Email]
	mu.user.Name = name
	s.users[u.Email] = mu
	return mu.user, nil
}

func (s *MemoryService) UpdatePassword(ctx context.Context, sessionToken, oldPassword, newPassword string) error {
	u, err := s.CurrentUser(ctx, sessionToken)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	mu := s.users[u.Email]
	if mu.password != oldPassword {
		return ErrInvalidCredentials
	}
	mu.password = newPassword
	s.users[u.Email] = mu
	return nil
}

func (s *MemoryService) CreateRecovery(_ context.Context, email, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.TrimSpace(strings.ToLower(email))
	if _, ok := s.users[email]; !ok {
		return ErrInvalidCredentials
	}
	// No mail transport in-process; the remote service sends the email.
	return nil
}

var _ Service = (*MemoryService)(nil)
