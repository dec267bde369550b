package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

const uniqueViolation = "23505"

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const accountColumns = `id, email, name, role, password_hash, email_verified, two_factor_secret, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, account model.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		account.ID, account.Email, account.Name, string(account.Role), account.PasswordHash,
		account.EmailVerified, account.TwoFactorSecret, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}

	return account, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`

	account, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	return account, nil
}

func (r *UserRepository) Update(ctx context.Context, account model.Account) error {
	query := `UPDATE accounts
			  SET email = $2, name = $3, role = $4, password_hash = $5,
			      email_verified = $6, two_factor_secret = $7, updated_at = $8
			  WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		account.ID, account.Email, account.Name, string(account.Role), account.PasswordHash,
		account.EmailVerified, account.TwoFactorSecret, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return n, nil
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var (
		account model.Account
		role    string
	)
	err := row.Scan(
		&account.ID, &account.Email, &account.Name, &role, &account.PasswordHash,
		&account.EmailVerified, &account.TwoFactorSecret, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return model.Account{}, err
	}
	account.Role = model.Role(role)

	return account, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
