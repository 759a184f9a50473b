package history

import (
	"context"
	"fmt"
	"math"
	"time"

	"expenseflow/internal/domain"
	"expenseflow/internal/storage"
)

// LoadFixtures populates stores with a deterministic synthetic history:
// twelve months of salary income, rent and a mildly seasonal spending
// pattern, plus two savings goals. Used by the cmd binaries and tests.
func LoadFixtures(ctx context.Context, userID string, txnStore storage.TransactionStore, goalStore storage.GoalStore, now time.Time) error {
	if err := loadTransactions(ctx, userID, txnStore, now); err != nil {
		return err
	}
	if goalStore != nil {
		if err := loadGoals(ctx, userID, goalStore, now); err != nil {
			return err
		}
	}
	return nil
}

func loadTransactions(ctx context.Context, userID string, store storage.TransactionStore, now time.Time) error {
	var txns []*domain.Transaction
	seq := 0

	add := func(date time.Time, amount float64, typ domain.TransactionType, category string) {
		seq++
		txns = append(txns, &domain.Transaction{
			ID:       fmt.Sprintf("fixture_%s_%04d", userID, seq),
			UserID:   userID,
			Date:     date,
			Amount:   amount,
			Type:     typ,
			Category: category,
		})
	}

	monthStart := PeriodStart(now.AddDate(0, -12, 0), domain.PeriodMonthly)
	for m := 0; m < 12; m++ {
		month := monthStart.AddDate(0, m, 0)

		// Salary on the 1st, slowly growing
		add(month, 4200+25*float64(m), domain.TransactionTypeIncome, "salary")

		// Rent on the 3rd
		add(month.AddDate(0, 0, 2), 1450, domain.TransactionTypeExpense, "housing")

		// Groceries weekly, seasonal swing peaking in December
		seasonal := 1 + 0.15*math.Cos(2*math.Pi*float64(month.Month()-12)/12)
		for w := 0; w < 4; w++ {
			add(month.AddDate(0, 0, 5+7*w), 110*seasonal, domain.TransactionTypeExpense, "groceries")
		}

		// Utilities mid-month
		add(month.AddDate(0, 0, 14), 180+10*math.Sin(float64(m)), domain.TransactionTypeExpense, "utilities")

		// Occasional side income every third month
		if m%3 == 1 {
			add(month.AddDate(0, 0, 20), 350, domain.TransactionTypeIncome, "freelance")
		}
	}

	return store.InsertBulk(ctx, txns)
}

func loadGoals(ctx context.Context, userID string, store storage.GoalStore, now time.Time) error {
	goals := []*domain.Goal{
		{
			ID:            "goal_emergency_" + userID,
			UserID:        userID,
			Name:          "Emergency fund",
			TargetAmount:  10000,
			CurrentAmount: 6200,
			TargetDate:    now.AddDate(0, 8, 0),
			Active:        true,
		},
		{
			ID:            "goal_vacation_" + userID,
			UserID:        userID,
			Name:          "Vacation",
			TargetAmount:  3000,
			CurrentAmount: 400,
			TargetDate:    now.AddDate(0, 4, 0),
			Active:        true,
		},
	}

	for _, g := range goals {
		if err := store.Insert(ctx, g); err != nil {
			return err
		}
	}
	return nil
}
