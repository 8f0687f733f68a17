package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/islmaice/connect/internal/models"
)

func (s *SQLStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.insertUser(ctx, s.db, user)
}

// CreateAccount inserts a user and its profile in one transaction, so a
// failed profile insert leaves no user behind.
func (s *SQLStore) CreateAccount(ctx context.Context, user *models.User, profile *models.Profile) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.insertUser(ctx, tx, user); err != nil {
			return err
		}
		profile.UserID = user.ID
		return s.insertProfile(ctx, tx, profile)
	})
}

func (s *SQLStore) insertUser(ctx context.Context, q queryer, user *models.User) error {
	query := s.rebind("INSERT INTO users (username, email, password, created_at) VALUES (?, ?, ?, ?) RETURNING id")
	err := q.QueryRowContext(ctx, query, user.Username, user.Email, user.Password, toNanos(user.CreatedAt)).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("create user %q: %w", user.Username, conflict(err))
	}
	return nil
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := s.rebind("SELECT id, username, email, password, created_at FROM users WHERE username = ?")
	return scanUser(s.db.QueryRowContext(ctx, query, username))
}

func (s *SQLStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := s.rebind("SELECT id, username, email, password, created_at FROM users WHERE id = ?")
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user    models.User
		created int64
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &created); err != nil {
		return nil, notFound(err)
	}
	user.CreatedAt = fromNanos(created)
	return &user, nil
}
