package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinda/internal/database"
	dbpostgres "cinda/internal/database/postgres"
	"cinda/internal/domain/user"
)

const userColumns = `id, name, email, password_hash, user_type, avatar, bio, location, website,
	specialization, social_provider, social_provider_id, followers, following, projects, awards,
	is_verified, last_login, created_at`

type UserRepository struct {
	base
}

func NewUserRepository(db database.DB, timeout time.Duration) *UserRepository {
	return &UserRepository{base: newBase(db, timeout)}
}

// Create writes the user and its enrolled courses in one transaction.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	specialties := u.Specialization
	if specialties == nil {
		specialties = []string{}
	}
	return r.inTx(ctx, func(q database.Querier) error {
		_, err := q.Exec(ctx, `
INSERT INTO users (id, name, email, password_hash, user_type, avatar, bio, location, website,
	specialization, social_provider, social_provider_id, followers, following, projects, awards,
	is_verified, last_login, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
			u.ID, u.Name, user.NormalizeEmail(u.Email), u.PasswordHash, string(u.Role), u.Avatar, u.Bio, u.Location, u.Website,
			specialties, u.SocialLogin.Provider, u.SocialLogin.ProviderID,
			u.Stats.Followers, u.Stats.Following, u.Stats.Projects, u.Stats.Awards,
			u.IsVerified, u.LastLogin, u.CreatedAt,
		)
		if err != nil {
			if dbpostgres.IsUniqueViolation(err) {
				return user.ErrEmailTaken
			}
			return fmt.Errorf("insert user: %w", err)
		}

		for _, courseID := range u.EnrolledCourses {
			if err := addEnrolledCourse(ctx, q, u.ID, courseID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, user.NormalizeEmail(email))
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	if err := r.loadEnrolled(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) loadEnrolled(ctx context.Context, u *user.User) error {
	rows, err := r.db.Query(ctx, `SELECT course_id FROM user_enrolled_courses WHERE user_id = $1 ORDER BY added_at, course_id`, u.ID)
	if err != nil {
		return fmt.Errorf("load enrolled courses: %w", err)
	}
	defer rows.Close()

	u.EnrolledCourses = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		u.EnrolledCourses = append(u.EnrolledCourses, id)
	}
	return rows.Err()
}

func (r *UserRepository) RecordLogin(ctx context.Context, id string, upd user.LoginUpdate) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var role *string
	if upd.Role != nil {
		s := string(*upd.Role)
		role = &s
	}
	n, err := r.db.Exec(ctx,
		`UPDATE users SET last_login = $2, user_type = COALESCE($3, user_type) WHERE id = $1`,
		id, upd.At.UTC(), role,
	)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, upd user.ProfileUpdate) (*user.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	sets := make([]string, 0, 5)
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Name != nil {
		add("name", strings.TrimSpace(*upd.Name))
	}
	if upd.Bio != nil {
		add("bio", *upd.Bio)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.Website != nil {
		add("website", *upd.Website)
	}
	if upd.SetSpecialization {
		specialties := upd.Specialization
		if specialties == nil {
			specialties = []string{}
		}
		add("specialization", specialties)
	}

	if len(sets) > 0 {
		n, err := r.db.Exec(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		if n == 0 {
			return nil, user.ErrNotFound
		}
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) AddEnrolledCourse(ctx context.Context, id, courseID string) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return addEnrolledCourse(ctx, r.db, id, courseID)
}

func addEnrolledCourse(ctx context.Context, q database.Querier, id, courseID string) error {
	_, err := q.Exec(ctx, `
INSERT INTO user_enrolled_courses (user_id, course_id)
SELECT $1, $2 WHERE EXISTS (SELECT 1 FROM users WHERE id = $1)
ON CONFLICT (user_id, course_id) DO NOTHING`, id, courseID)
	if err != nil {
		return fmt.Errorf("add enrolled course: %w", err)
	}

	var ok bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&ok); err != nil {
		return fmt.Errorf("add enrolled course: %w", err)
	}
	if !ok {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Search(ctx context.Context, q string, limit int) ([]user.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
SELECT `+userColumns+` FROM users
WHERE $1 = ''
	OR position(lower($1) in lower(name)) > 0
	OR position(lower($1) in lower(bio)) > 0
	OR position(lower($1) in lower(location)) > 0
ORDER BY followers DESC, created_at DESC
LIMIT $2`, strings.TrimSpace(q), limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func scanUser(row database.Row) (*user.User, error) {
	var (
		u    user.User
		role string
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Avatar, &u.Bio, &u.Location, &u.Website,
		&u.Specialization, &u.SocialLogin.Provider, &u.SocialLogin.ProviderID,
		&u.Stats.Followers, &u.Stats.Following, &u.Stats.Projects, &u.Stats.Awards,
		&u.IsVerified, &u.LastLogin, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Role = user.Role(role)
	return &u, nil
}
