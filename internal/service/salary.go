package service

import (
	"context"
	"errors"

	"github.com/paytrack/authd/internal/domain"
	"github.com/paytrack/authd/internal/store"
)

// ErrSalaryNotFound is returned when a user has no salary record yet.
var ErrSalaryNotFound = errors.New("salary info not found")

// SalaryService manages the salary records gated behind token validation.
type SalaryService struct {
	Store store.Store
}

// Record inserts or replaces the salary row for a user.
func (s *SalaryService) Record(ctx context.Context, salary domain.Salary) error {
	return s.Store.Salaries().UpsertSalary(ctx, salary)
}

// ForUser returns the salary projection for a user, joined with the user's
// display name.
func (s *SalaryService) ForUser(ctx context.Context, userID int64) (domain.SalaryInfo, error) {
	salary, err := s.Store.Salaries().GetSalaryByUserID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.SalaryInfo{}, ErrSalaryNotFound
	}
	if err != nil {
		return domain.SalaryInfo{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.SalaryInfo{}, ErrUserNotFound
	}
	if err != nil {
		return domain.SalaryInfo{}, err
	}

	return domain.SalaryInfo{
		UserID:     userID,
		Name:       user.Name,
		Value:      salary.Value,
		TargetDate: salary.TargetDate,
	}, nil
}
