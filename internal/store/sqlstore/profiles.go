package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/islmaice/connect/internal/models"
)

const profileColumns = `p.id, p.user_id, u.username, p.display_name, p.bio, p.age, p.gender,
	p.location, p.interests, p.photo, p.created_at, p.updated_at`

// SaveProfile inserts the profile when it has no id yet, otherwise updates it.
func (s *SQLStore) SaveProfile(ctx context.Context, p *models.Profile) error {
	if p.ID == 0 {
		return s.insertProfile(ctx, s.db, p)
	}

	query := s.rebind(`
		UPDATE profiles
		SET display_name = ?, bio = ?, age = ?, gender = ?, location = ?, interests = ?, photo = ?, updated_at = ?
		WHERE id = ?
	`)
	_, err := s.db.ExecContext(ctx, query,
		p.DisplayName, p.Bio, nullAge(p.Age), string(p.Gender), p.Location, p.Interests, p.Photo, toNanos(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update profile %d: %w", p.ID, err)
	}
	return nil
}

func (s *SQLStore) insertProfile(ctx context.Context, q queryer, p *models.Profile) error {
	query := s.rebind(`
		INSERT INTO profiles (user_id, display_name, bio, age, gender, location, interests, photo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := q.QueryRowContext(ctx, query,
		p.UserID, p.DisplayName, p.Bio, nullAge(p.Age), string(p.Gender), p.Location, p.Interests, p.Photo,
		toNanos(p.CreatedAt), toNanos(p.UpdatedAt),
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("create profile for user %d: %w", p.UserID, conflict(err))
	}
	return nil
}

func nullAge(age *int) sql.NullInt64 {
	if age == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*age), Valid: true}
}

func (s *SQLStore) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	query := s.rebind("SELECT " + profileColumns + " FROM profiles p JOIN users u ON u.id = p.user_id WHERE p.id = ?")
	return scanProfile(s.db.QueryRowContext(ctx, query, id))
}

func (s *SQLStore) CountProfiles(ctx context.Context, filter models.ProfileFilter) (int, error) {
	where, args := profileWhere(filter)
	query := s.rebind("SELECT COUNT(*) FROM profiles p" + where)
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

// ListProfiles returns one window of the filtered directory in id order so
// that consecutive pages neither overlap nor skip rows.
func (s *SQLStore) ListProfiles(ctx context.Context, filter models.ProfileFilter, limit, offset int) ([]models.Profile, error) {
	where, args := profileWhere(filter)
	query := s.rebind("SELECT " + profileColumns + " FROM profiles p JOIN users u ON u.id = p.user_id" +
		where + " ORDER BY p.id ASC LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func profileWhere(f models.ProfileFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if q := strings.TrimSpace(f.Query); q != "" {
		conds = append(conds, `LOWER(p.display_name) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(q))+"%")
	}
	if f.Gender.Valid() {
		conds = append(conds, "p.gender = ?")
		args = append(args, string(f.Gender))
	}
	if f.MinAge > 0 {
		conds = append(conds, "p.age >= ?")
		args = append(args, f.MinAge)
	}
	if f.MaxAge > 0 {
		conds = append(conds, "p.age <= ?")
		args = append(args, f.MaxAge)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p       models.Profile
		age     sql.NullInt64
		gender  string
		created int64
		updated int64
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Username, &p.DisplayName, &p.Bio, &age, &gender,
		&p.Location, &p.Interests, &p.Photo, &created, &updated)
	if err != nil {
		return nil, notFound(err)
	}
	if age.Valid {
		a := int(age.Int64)
		p.Age = &a
	}
	p.Gender = models.Gender(gender)
	p.CreatedAt = fromNanos(created)
	p.UpdatedAt = fromNanos(updated)
	return &p, nil
}
