package sqlite

import (
	"context"
	"time"

	"github.com/paytrack/authd/internal/domain"
)

type salariesRepo struct {
	db dbtx
}

func (r *salariesRepo) UpsertSalary(ctx context.Context, s domain.Salary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO salaries (user_id, value, target_date, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   value = excluded.value,
		   target_date = excluded.target_date,
		   updated_at = excluded.updated_at`,
		s.UserID, s.Value, s.TargetDate.UTC(), time.Now().UTC())
	return err
}

func (r *salariesRepo) GetSalaryByUserID(ctx context.Context, userID int64) (domain.Salary, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, value, target_date, updated_at FROM salaries WHERE user_id = ?`, userID)

	var s domain.Salary
	err := row.Scan(&s.UserID, &s.Value, &s.TargetDate, &s.UpdatedAt)
	if err != nil {
		return domain.Salary{}, mapNotFound(err)
	}
	return s, nil
}
