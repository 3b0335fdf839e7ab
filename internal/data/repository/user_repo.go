package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/data/entity"
	"backoffice/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// UserFilter narrows user listings. Role is always applied; Search matches
// name, email and phone, plus company name when WithProfile is set.
type UserFilter struct {
	Role        entity.UserRole
	Search      string
	WithProfile bool
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByIDAndRole(ctx context.Context, id int64, role entity.UserRole) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindEmailsByRole(ctx context.Context, role entity.UserRole) ([]string, error)
	Search(ctx context.Context, filter UserFilter, limit, offset int) ([]*entity.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int64) error
	DeleteByIDsAndRole(ctx context.Context, ids []int64, role entity.UserRole) ([]*entity.User, error)
}

type userRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewUserRepository(db database.Querier, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `u.id, u.name, u.email, u.password, u.phone, u.role,
	u.avatar, u.last_login_at, u.created_at, u.updated_at`

func userScanTargets(user *entity.User) []any {
	return []any{
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.Role,
		&user.AvatarPath,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
}

// Create inserts a new user and fills in the generated id and timestamps.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (name, email, password, phone, role, avatar)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := ur.db.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Role,
		user.AvatarPath,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("role", string(user.Role)),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`
	return ur.findOne(ctx, "find user by ID", query, id)
}

// FindByIDAndRole only matches users holding the given role, so a staff id
// is invisible to the client screens and vice versa.
func (ur *userRepository) FindByIDAndRole(ctx context.Context, id int64, role entity.UserRole) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1 AND u.role = $2`
	return ur.findOne(ctx, "find user by ID and role", query, id, role)
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.email = $1`
	return ur.findOne(ctx, "find user by email", query, email)
}

func (ur *userRepository) findOne(ctx context.Context, op, query string, args ...any) (*entity.User, error) {
	var user entity.User
	err := ur.db.QueryRow(ctx, query, args...).Scan(userScanTargets(&user)...)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to "+op,
			zap.Error(err),
			zap.Any("args", args),
		)
		return nil, fmt.Errorf("%s %v: %w", op, args, err)
	}

	return &user, nil
}

// FindEmailsByRole returns every address holding the role, used to fan out
// administrative notifications.
func (ur *userRepository) FindEmailsByRole(ctx context.Context, role entity.UserRole) ([]string, error) {
	query := `SELECT email FROM users WHERE role = $1 ORDER BY id`

	rows, err := ur.db.Query(ctx, query, role)
	if err != nil {
		ur.log.Error("Failed to find emails by role", zap.Error(err), zap.String("role", string(role)))
		return nil, fmt.Errorf("find emails by role %s: %w", role, err)
	}
	defer rows.Close()

	emails := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan email row: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate email rows: %w", err)
	}

	return emails, nil
}

func (f UserFilter) where() (from string, w *whereBuilder) {
	w = &whereBuilder{}
	from = " FROM users u"
	// the profile is joined for projection only
	if f.WithProfile {
		from += " LEFT JOIN user_profiles p ON p.user_id = u.id"
	}
	w.add("u.role = %s", f.Role)
	w.addSearch(f.Search, "u.name", "u.email", "u.phone")
	return from, w
}

// Search returns one page of users, newest first. Ties on created_at are
// broken by id so page boundaries stay stable between requests.
func (ur *userRepository) Search(ctx context.Context, filter UserFilter, limit, offset int) ([]*entity.User, error) {
	from, w := filter.where()

	columns := userColumns
	if filter.WithProfile {
		columns += `, p.id, p.address, p.country_id, p.state, p.city,
			p.post_code, p.company_name, p.tax_id, p.created_at, p.updated_at`
	}

	query := `SELECT ` + columns + from + w.sql() +
		` ORDER BY u.created_at DESC, u.id DESC LIMIT ` + w.next()
	w.args = append(w.args, limit)
	query += ` OFFSET ` + w.next()
	w.args = append(w.args, offset)

	rows, err := ur.db.Query(ctx, query, w.args...)
	if err != nil {
		ur.log.Error("Failed to search users",
			zap.Error(err),
			zap.String("role", string(filter.Role)),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("search users role %s limit %d offset %d: %w", filter.Role, limit, offset, err)
	}
	defer rows.Close()

	users := []*entity.User{}
	for rows.Next() {
		var user entity.User
		targets := userScanTargets(&user)

		var p nullableProfile
		if filter.WithProfile {
			targets = append(targets, p.targets()...)
		}

		if err := rows.Scan(targets...); err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		if filter.WithProfile {
			user.Profile = p.profile(user.ID)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) Count(ctx context.Context, filter UserFilter) (int64, error) {
	from, w := filter.where()
	query := `SELECT COUNT(*)` + from + w.sql()

	var count int64
	if err := ur.db.QueryRow(ctx, query, w.args...).Scan(&count); err != nil {
		ur.log.Error("Database error counting users",
			zap.Error(err),
			zap.String("role", string(filter.Role)),
		)
		return 0, fmt.Errorf("count users role %s: %w", filter.Role, err)
	}

	return count, nil
}

// Update writes every mutable column and refreshes UpdatedAt.
func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, password = $4, phone = $5,
		    role = $6, avatar = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := ur.db.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Role,
		user.AvatarPath,
	).Scan(&user.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update user %d: %w", user.ID, ErrNotFound)
	}
	if err != nil {
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.Int64("user_id", user.ID),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}

	return nil
}

// Delete removes the user; the profile goes with it through ON DELETE CASCADE.
func (ur *userRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to delete user",
			zap.Error(err),
			zap.Int64("id", id),
		)
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete user %d: %w", id, ErrNotFound)
	}

	ur.log.Info("User deleted", zap.Int64("id", id))
	return nil
}

// DeleteByIDsAndRole removes the listed users that hold role and returns the
// removed rows. Ids that do not exist or belong to another role are skipped.
func (ur *userRepository) DeleteByIDsAndRole(ctx context.Context, ids []int64, role entity.UserRole) ([]*entity.User, error) {
	query := `
		DELETE FROM users u
		WHERE u.id = ANY($1) AND u.role = $2
		RETURNING ` + userColumns

	rows, err := ur.db.Query(ctx, query, ids, role)
	if err != nil {
		ur.log.Error("Failed to bulk delete users",
			zap.Error(err),
			zap.Int64s("ids", ids),
			zap.String("role", string(role)),
		)
		return nil, fmt.Errorf("bulk delete users role %s: %w", role, err)
	}
	defer rows.Close()

	deleted := []*entity.User{}
	for rows.Next() {
		var user entity.User
		if err := rows.Scan(userScanTargets(&user)...); err != nil {
			return nil, fmt.Errorf("scan deleted user row: %w", err)
		}
		deleted = append(deleted, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted users rows: %w", err)
	}

	ur.log.Info("Users deleted",
		zap.String("role", string(role)),
		zap.Int("requested", len(ids)),
		zap.Int("deleted", len(deleted)),
	)
	return deleted, nil
}

// nullableProfile receives the LEFT JOINed profile columns.
type nullableProfile struct {
	id          *int64
	address     *string
	countryID   *int64
	state       *string
	city        *string
	postCode    *string
	companyName *string
	taxID       *string
	createdAt   *time.Time
	updatedAt   *time.Time
}

func (p *nullableProfile) targets() []any {
	return []any{
		&p.id, &p.address, &p.countryID, &p.state, &p.city,
		&p.postCode, &p.companyName, &p.taxID, &p.createdAt, &p.updatedAt,
	}
}

func (p *nullableProfile) profile(userID int64) *entity.Profile {
	if p.id == nil {
		return nil
	}
	profile := &entity.Profile{
		UserID:      userID,
		Address:     p.address,
		CountryID:   p.countryID,
		State:       p.state,
		City:        p.city,
		PostCode:    p.postCode,
		CompanyName: p.companyName,
		TaxID:       p.taxID,
	}
	profile.ID = *p.id
	if p.createdAt != nil {
		profile.CreatedAt = *p.createdAt
	}
	if p.updatedAt != nil {
		profile.UpdatedAt = *p.updatedAt
	}
	return profile
}
