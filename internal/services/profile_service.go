package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"smartspend/internal/core"
	"smartspend/internal/rowstore"
)

// ProfileService manages the per-user profile row. Each user has at most
// one profile, created at registration time.
type ProfileService struct {
	store rowstore.Client
}

func NewProfileService(store rowstore.Client) *ProfileService {
	return &ProfileService{store: store}
}

// Get returns the user's profile row.
func (s *ProfileService) Get(ctx context.Context, userID string) (core.Profile, error) {
	if userID == "" {
		return core.Profile{}, core.ErrMissingUser
	}
	list, err := s.store.ListRows(ctx, rowstore.TableProfiles, rowstore.NewQuery().
		ForUser(userID).
		Page(1, 0))
	if err != nil {
		return core.Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	if len(list.Rows) == 0 {
		return core.Profile{}, rowstore.ErrNotFound
	}
	return profileFromRow(list.Rows[0]), nil
}

// CreateForUser seeds the profile row for a newly registered user with a
// generated initials avatar.
func (s *ProfileService) CreateForUser(ctx context.Context, userID, username, email string) (core.Profile, error) {
	p := core.Profile{
		UserID:         userID,
		Username:       username,
		Email:          email,
		ProfilePicture: avatarURL(username),
	}
	if err := p.Validate(); err != nil {
		return core.Profile{}, err
	}

	p.ID = uuid.NewString()
	row, err := s.store.CreateRow(ctx, rowstore.TableProfiles, p.ID, rowstore.Row{
		rowstore.FieldUser:  p.UserID,
		fieldUsername:       p.Username,
		fieldEmail:          p.Email,
		fieldProfilePicture: p.ProfilePicture,
	}, rowstore.OwnerPermissions(userID))
	if err != nil {
		return core.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return profileFromRow(row), nil
}

// Update rewrites the profile's mutable fields.
func (s *ProfileService) Update(ctx context.Context, userID string, username, profilePicture string) (core.Profile, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return core.Profile{}, err
	}

	data := rowstore.Row{}
	if username != "" {
		data[fieldUsername] = username
	}
	if profilePicture != "" {
		data[fieldProfilePicture] = profilePicture
	}
	if len(data) == 0 {
		return current, nil
	}

	row, err := s.store.UpdateRow(ctx, rowstore.TableProfiles, current.ID, data)
	if err != nil {
		return core.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return profileFromRow(row), nil
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name)
}
