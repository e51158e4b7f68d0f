package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/learnhub-auth/internal/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY, raised by the unique index on email.
const mysqlDuplicateEntry = 1062

const selectAccount = "SELECT id,email,full_name,password_hash,provider,role,created_at,updated_at FROM accounts"

// AccountRepo is the MySQL-backed account store. It owns no connection
// lifecycle; the *sql.DB is opened and closed by the process entry point.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// Create inserts an account and returns the stored record.
func (r *AccountRepo) Create(ctx context.Context, in NewAccount) (model.Account, error) {
	a, err := in.build(time.Now().UTC())
	if err != nil {
		return model.Account{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO accounts (id,email,full_name,password_hash,provider,role,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?)",
		a.ID, a.Email, a.FullName, nullString(a.PasswordHash), string(a.Provider), a.Role, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return model.Account{}, ErrDuplicateEmail
		}
		return model.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return a, nil
}

// FindByEmail fetches an account by normalized email.
func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (model.Account, error) {
	row := r.DB.QueryRowContext(ctx, selectAccount+" WHERE email=? LIMIT 1", model.NormalizeEmail(email))
	return scanAccount(row)
}

// FindByID fetches an account by id.
func (r *AccountRepo) FindByID(ctx context.Context, id string) (model.Account, error) {
	row := r.DB.QueryRowContext(ctx, selectAccount+" WHERE id=? LIMIT 1", id)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (model.Account, error) {
	var (
		a        model.Account
		hash     sql.NullString
		provider string
	)
	err := row.Scan(&a.ID, &a.Email, &a.FullName, &hash, &provider, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, ErrNotFound
		}
		return model.Account{}, fmt.Errorf("query account: %w", err)
	}
	a.PasswordHash = hash.String
	a.Provider = model.Provider(provider)
	return a, nil
}

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
