package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"smartspend/internal/core"
	"smartspend/internal/rowstore"
)

// GoalService manages savings goals and their contribution totals.
type GoalService struct {
	store rowstore.Client
}

func NewGoalService(store rowstore.Client) *GoalService {
	return &GoalService{store: store}
}

// List returns one page of the user's goals, newest first.
func (s *GoalService) List(ctx context.Context, userID string, limit, offset int) (Page[core.Goal], error) {
	if userID == "" {
		return Page[core.Goal]{}, core.ErrMissingUser
	}
	limit, offset = normalizePage(limit, offset)

	list, err := s.store.ListRows(ctx, rowstore.TableGoals, rowstore.NewQuery().
		ForUser(userID).
		OrderDesc(rowstore.FieldCreatedAt).
		Page(limit, offset))
	if err != nil {
		return Page[core.Goal]{}, fmt.Errorf("list goals: %w", err)
	}

	page := Page[core.Goal]{Items: make([]core.Goal, 0, len(list.Rows)), Total: list.Total}
	for _, row := range list.Rows {
		page.Items = append(page.Items, goalFromRow(row))
	}
	return page, nil
}

func (s *GoalService) Get(ctx context.Context, userID, id string) (core.Goal, error) {
	row, err := getOwnedRow(ctx, s.store, rowstore.TableGoals, userID, id)
	if err != nil {
		return core.Goal{}, err
	}
	return goalFromRow(row), nil
}

// Create stores a new goal with an empty contribution total. A missing
// priority defaults to medium.
func (s *GoalService) Create(ctx context.Context, g core.Goal) (core.Goal, error) {
	g.AmountContributed = core.Money{}
	if g.Priority == "" {
		g.Priority = core.PriorityMedium
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	g.ID = uuid.NewString()
	row, err := s.store.CreateRow(ctx, rowstore.TableGoals, g.ID, goalData(g), rowstore.OwnerPermissions(g.UserID))
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return goalFromRow(row), nil
}

// Update rewrites an owned goal's descriptive fields. The contribution
// total is carried over from the stored row; only Contribute moves it.
func (s *GoalService) Update(ctx context.Context, userID, id string, g core.Goal) (core.Goal, error) {
	current, err := getOwnedRow(ctx, s.store, rowstore.TableGoals, userID, id)
	if err != nil {
		return core.Goal{}, err
	}
	g.UserID = userID
	g.AmountContributed = core.MoneyFromFloat(current.Float(fieldAmountContributed))
	if g.Priority == "" {
		g.Priority = core.GoalPriority(current.String(fieldPriority))
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	row, err := s.store.UpdateRow(ctx, rowstore.TableGoals, id, goalData(g))
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	return goalFromRow(row), nil
}

func (s *GoalService) Delete(ctx context.Context, userID, id string) error {
	if _, err := getOwnedRow(ctx, s.store, rowstore.TableGoals, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteRow(ctx, rowstore.TableGoals, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

// Contribute adds amount to the goal's contribution total. Contributions
// only ever grow the total; there is no withdrawal operation.
func (s *GoalService) Contribute(ctx context.Context, userID, goalID string, amount core.Money) (core.Goal, error) {
	if err := amount.Validate(); err != nil {
		return core.Goal{}, err
	}
	row, err := getOwnedRow(ctx, s.store, rowstore.TableGoals, userID, goalID)
	if err != nil {
		return core.Goal{}, err
	}

	total := core.MoneyFromFloat(row.Float(fieldAmountContributed)).Add(amount)
	updated, err := s.store.UpdateRow(ctx, rowstore.TableGoals, goalID, rowstore.Row{
		fieldAmountContributed: total.Float(),
	})
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal total: %w", err)
	}
	return goalFromRow(updated), nil
}
