package core

import (
	"errors"
	"strings"
	"time"
)

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

type (
	GoalPriority string

	CategoryType string

	// Transaction is a single expense or revenue row. The Date field holds
	// transactionDate for expenses and receiptDate for revenue.
	Transaction struct {
		ID           string
		UserID       string
		Amount       Money
		Date         time.Time
		Notes        string
		CategoryID   string
		CategoryName string
		BudgetID     string
		CreatedAt    time.Time
	}

	// Budget is a spending ceiling with a denormalized running total.
	// SpentAmount is maintained by client writes, not derived server-side.
	Budget struct {
		ID            string
		UserID        string
		Name          string
		Amount        Money
		SpentAmount   Money
		Notes         string
		StartDate     time.Time
		EndDate       time.Time // zero when open-ended
		CategoryNames []string
		CreatedAt     time.Time
	}

	// Goal is a savings target with a denormalized contribution total.
	Goal struct {
		ID                string
		UserID            string
		Name              string
		TargetAmount      Money
		AmountContributed Money
		Deadline          time.Time // zero when no deadline
		Priority          GoalPriority
		Description       string
		CreatedAt         time.Time
	}

	Category struct {
		ID     string
		UserID string
		Name   string
		Type   CategoryType
	}

	Profile struct {
		ID             string
		UserID         string
		Username       string
		Email          string
		ProfilePicture string
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrMissingUser     = errors.New("missing owning user")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidType     = errors.New("invalid category type")
)

func (p GoalPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (t CategoryType) IsValid() bool {
	switch t {
	case CategoryIncome, CategoryExpense:
		return true
	default:
		return false
	}
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrMissingUser
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(t.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return ErrMissingUser
	}
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if len(b.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	// Running total starts at zero and is never negative.
	if b.SpentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if b.StartDate.IsZero() {
		return ErrInvalidDate
	}
	if !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return errors.New("end date must not precede start date")
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.UserID) == "" {
		return ErrMissingUser
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.AmountContributed.Cents < 0 {
		return ErrInvalidAmount
	}
	if !g.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if len(g.Description) > 500 {
		return errors.New("description too long (max 500 characters)")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return ErrMissingUser
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if !c.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return ErrMissingUser
	}
	if strings.TrimSpace(p.Username) == "" {
		return ErrEmptyName
	}
	return nil
}
