package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"smartspend/internal/core"
	"smartspend/internal/rowstore"
)

// CategoryService manages the user's transaction categories.
type CategoryService struct {
	store rowstore.Client
}

func NewCategoryService(store rowstore.Client) *CategoryService {
	return &CategoryService{store: store}
}

// ListByType returns the user's categories of one kind, sorted by name.
func (s *CategoryService) ListByType(ctx context.Context, userID string, ctype core.CategoryType) ([]core.Category, error) {
	if userID == "" {
		return nil, core.ErrMissingUser
	}
	if !ctype.IsValid() {
		return nil, core.ErrInvalidType
	}

	list, err := s.store.ListRows(ctx, rowstore.TableCategory, rowstore.NewQuery().
		ForUser(userID).
		Equal(fieldType, string(ctype)).
		OrderAsc(fieldCategoryName))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := make([]core.Category, 0, len(list.Rows))
	for _, row := range list.Rows {
		categories = append(categories, categoryFromRow(row))
	}
	return categories, nil
}

// Add creates a new category for the user. The generated row id is also
// stored in the categoryId column so transactions can reference it.
func (s *CategoryService) Add(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	c.ID = uuid.NewString()
	row, err := s.store.CreateRow(ctx, rowstore.TableCategory, c.ID, rowstore.Row{
		rowstore.FieldUser: c.UserID,
		fieldCategoryID:    c.ID,
		fieldCategoryName:  c.Name,
		fieldType:          string(c.Type),
	}, rowstore.OwnerPermissions(c.UserID))
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return categoryFromRow(row), nil
}

func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	if _, err := getOwnedRow(ctx, s.store, rowstore.TableCategory, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteRow(ctx, rowstore.TableCategory, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
