package services

import (
	"time"

	"smartspend/internal/core"
	"smartspend/internal/rowstore"
)

// Row field names shared with the row-store tables. These mirror the
// column names of the hosted tables so the same services run against
// the remote, sqlite and memory backends.
const (
	fieldAmount            = "amount"
	fieldTransactionDate   = "transactionDate"
	fieldReceiptDate       = "receiptDate"
	fieldNotes             = "notes"
	fieldCategoryID        = "categoryId"
	fieldCategoryName      = "categoryName"
	fieldBudgetID          = "budgetId"
	fieldName              = "name"
	fieldSpentAmount       = "spentAmount"
	fieldStartDate         = "startDate"
	fieldEndDate           = "endDate"
	fieldCategoryNames     = "categoryNames"
	fieldGoalName          = "goalName"
	fieldTargetAmount      = "targetAmount"
	fieldAmountContributed = "amountContributed"
	fieldDeadline          = "deadline"
	fieldPriority          = "priority"
	fieldDescription       = "description"
	fieldType              = "type"
	fieldUsername          = "username"
	fieldEmail             = "email"
	fieldProfilePicture    = "profilePicture"
	fieldMessage           = "message"
	fieldRead              = "read"
)

func rowTime(row rowstore.Row, field string) time.Time {
	t, _ := row.Time(field)
	return t
}

func transactionFromRow(row rowstore.Row, dateField string) core.Transaction {
	return core.Transaction{
		ID:           row.ID(),
		UserID:       row.String(rowstore.FieldUser),
		Amount:       core.MoneyFromFloat(row.Float(fieldAmount)),
		Date:         rowTime(row, dateField),
		Notes:        row.String(fieldNotes),
		CategoryID:   row.String(fieldCategoryID),
		CategoryName: row.String(fieldCategoryName),
		BudgetID:     row.String(fieldBudgetID),
		CreatedAt:    row.CreatedAt(),
	}
}

func transactionData(tx core.Transaction, dateField string) rowstore.Row {
	data := rowstore.Row{
		rowstore.FieldUser: tx.UserID,
		fieldAmount:        tx.Amount.Float(),
		dateField:          tx.Date.Format("2006-01-02"),
	}
	if tx.Notes != "" {
		data[fieldNotes] = tx.Notes
	}
	if tx.CategoryID != "" {
		data[fieldCategoryID] = tx.CategoryID
	}
	if tx.CategoryName != "" {
		data[fieldCategoryName] = tx.CategoryName
	}
	if tx.BudgetID != "" {
		data[fieldBudgetID] = tx.BudgetID
	}
	return data
}

func budgetFromRow(row rowstore.Row) core.Budget {
	return core.Budget{
		ID:            row.ID(),
		UserID:        row.String(rowstore.FieldUser),
		Name:          row.String(fieldName),
		Amount:        core.MoneyFromFloat(row.Float(fieldAmount)),
		SpentAmount:   core.MoneyFromFloat(row.Float(fieldSpentAmount)),
		Notes:         row.String(fieldNotes),
		StartDate:     rowTime(row, fieldStartDate),
		EndDate:       rowTime(row, fieldEndDate),
		CategoryNames: row.Strings(fieldCategoryName),
		CreatedAt:     row.CreatedAt(),
	}
}

func budgetData(b core.Budget) rowstore.Row {
	data := rowstore.Row{
		rowstore.FieldUser: b.UserID,
		fieldName:          b.Name,
		fieldAmount:        b.Amount.Float(),
		fieldSpentAmount:   b.SpentAmount.Float(),
	}
	if b.Notes != "" {
		data[fieldNotes] = b.Notes
	}
	if !b.StartDate.IsZero() {
		data[fieldStartDate] = b.StartDate.Format("2006-01-02")
	}
	if !b.EndDate.IsZero() {
		data[fieldEndDate] = b.EndDate.Format("2006-01-02")
	}
	if len(b.CategoryNames) > 0 {
		data[fieldCategoryName] = b.CategoryNames
	}
	return data
}

func goalFromRow(row rowstore.Row) core.Goal {
	return core.Goal{
		ID:                row.ID(),
		UserID:            row.String(rowstore.FieldUser),
		Name:              row.String(fieldGoalName),
		TargetAmount:      core.MoneyFromFloat(row.Float(fieldTargetAmount)),
		AmountContributed: core.MoneyFromFloat(row.Float(fieldAmountContributed)),
		Deadline:          rowTime(row, fieldDeadline),
		Priority:          core.GoalPriority(row.String(fieldPriority)),
		Description:       row.String(fieldDescription),
		CreatedAt:         row.CreatedAt(),
	}
}

func goalData(g core.Goal) rowstore.Row {
	data := rowstore.Row{
		rowstore.FieldUser:     g.UserID,
		fieldGoalName:          g.Name,
		fieldTargetAmount:      g.TargetAmount.Float(),
		fieldAmountContributed: g.AmountContributed.Float(),
		fieldPriority:          string(g.Priority),
	}
	if !g.Deadline.IsZero() {
		data[fieldDeadline] = g.Deadline.Format("2006-01-02")
	}
	if g.Description != "" {
		data[fieldDescription] = g.Description
	}
	return data
}

func categoryFromRow(row rowstore.Row) core.Category {
	return core.Category{
		ID:     row.ID(),
		UserID: row.String(rowstore.FieldUser),
		Name:   row.String(fieldCategoryName),
		Type:   core.CategoryType(row.String(fieldType)),
	}
}

func profileFromRow(row rowstore.Row) core.Profile {
	return core.Profile{
		ID:             row.ID(),
		UserID:         row.String(rowstore.FieldUser),
		Username:       row.String(fieldUsername),
		Email:          row.String(fieldEmail),
		ProfilePicture: row.String(fieldProfilePicture),
	}
}
