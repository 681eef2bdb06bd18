package sqlite

import (
	"context"
	"time"

	"github.com/paytrack/authd/internal/domain"
)

type tokensRepo struct {
	db dbtx
}

const tokenColumns = `value, user_id, expires_at, created_at`

func (r *tokensRepo) GetTokenByUserID(ctx context.Context, userID int64) (domain.Token, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE user_id = ?`, userID)
	return scanToken(row)
}

func (r *tokensRepo) GetTokenByValue(ctx context.Context, value string) (domain.Token, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE value = ?`, value)
	return scanToken(row)
}

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.Token) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (value, user_id, expires_at, created_at)
		 VALUES (?, ?, ?, ?)`,
		t.Value, t.UserID, t.ExpiresAt.UTC(), time.Now().UTC())
	return mapConstraint(err)
}

func (r *tokensRepo) DeleteToken(ctx context.Context, value string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE value = ?`, value)
	return err
}

func scanToken(row rowScanner) (domain.Token, error) {
	var t domain.Token
	err := row.Scan(&t.Value, &t.UserID, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	return t, nil
}
