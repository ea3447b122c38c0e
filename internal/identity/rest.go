package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RESTConfig holds connection settings for the remote identity service.
type RESTConfig struct {
	Endpoint  string
	ProjectID string
	Timeout   time.Duration
}

// RESTService talks to the remote account API. Session tokens are passed
// per call, never held as ambient state.
type RESTService struct {
	cfg  RESTConfig
	http *http.Client
}

func NewRESTService(cfg RESTConfig) (*RESTService, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("identity endpoint is required")
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("identity project id is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &RESTService{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}, nil
}

type userResponse struct {
	ID    string `json:"$id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type sessionResponse struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
	Expire string `json:"expire"`
}

func (s *RESTService) Register(ctx context.Context, email, password, name string) (User, error) {
	body, err := s.do(ctx, http.MethodPost, "/account", "", map[string]any{
		"userId":   "unique()",
		"email":    email,
		"password": password,
		"name":     name,
	})
	if err != nil {
		return User{}, fmt.Errorf("register account: %w", err)
	}
	return decodeUser(body)
}

func (s *RESTService) CreateEmailSession(ctx context.Context, email, password string) (Session, error) {
	body, err := s.do(ctx, http.MethodPost, "/account/sessions/email", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}

	var resp sessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	sess := Session{ID: resp.ID, UserID: resp.UserID, Token: resp.Secret}
	if t, err := time.Parse(time.RFC3339, resp.Expire); err == nil {
		sess.ExpiresAt = t
	}
	return sess, nil
}

func (s *RESTService) CurrentUser(ctx context.Context, sessionToken string) (User, error) {
	body, err := s.do(ctx, http.MethodGet, "/account", sessionToken, nil)
	if err != nil {
		return User{}, fmt.Errorf("fetch current user: %w", err)
	}
	return decodeUser(body)
}

func (s *RESTService) DeleteSession(ctx context.Context, sessionToken string) error {
	if _, err := s.do(ctx, http.MethodDelete, "/account/sessions/current", sessionToken, nil); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *RESTService) UpdateName(ctx context.Context, sessionToken, name string) (User, error) {
	body, err := s.do(ctx, http.MethodPatch, "/account/name", sessionToken, map[string]any{
		"name": name,
	})
	if err != nil {
		return User{}, fmt.Errorf("update name: %w", err)
	}
	return decodeUser(body)
}

func (s *RESTService) UpdatePassword(ctx context.Context, sessionToken, oldPassword, newPassword string) error {
	_, err := s.do(ctx, http.MethodPatch, "/account/password", sessionToken, map[string]any{
		"oldPassword": oldPassword,
		"password":    newPassword,
	})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *RESTService) CreateRecovery(ctx context.Context, email, redirectURL string) error {
	_, err := s.do(ctx, http.MethodPost, "/account/recovery", "", map[string]any{
		"email": email,
		"url":   redirectURL,
	})
	if err != nil {
		return fmt.Errorf("create recovery: %w", err)
	}
	return nil
}

func (s *RESTService) do(ctx context.Context, method, path, sessionToken string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.cfg.Endpoint+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Project", s.cfg.ProjectID)
	if sessionToken != "" {
		req.Header.Set("X-Session", sessionToken)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrNoSession
	case resp.StatusCode == http.StatusConflict:
		return nil, ErrUserExists
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

func decodeUser(body []byte) (User, error) {
	var resp userResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	return User{ID: resp.ID, Email: resp.Email, Name: resp.Name}, nil
}

var _ Service = (*RESTService)(nil)
