package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/EobardThawne2/parking-beta/internal/domain"
	"github.com/EobardThawne2/parking-beta/pkg/telemetry"
)

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

var _ UserRepository = (*PostgresUserRepository)(nil)

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create stores a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.user.create")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", user.ID))

	query := `
		INSERT INTO users (id, email, password_hash, full_name, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		normalizeEmail(user.Email),
		user.PasswordHash,
		user.FullName,
		nullString(user.Phone),
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.SetStatus(codes.Error, "duplicate email")
			return domain.ErrUserAlreadyExists
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create user: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByEmail returns the user with the given email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.user.get_by_email")
	defer span.End()

	return r.getOne(ctx, `WHERE email = $1`, normalizeEmail(email))
}

// GetByID returns the user with the given ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.user.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id))

	return r.getOne(ctx, `WHERE id = $1`, id)
}

// Count returns the number of registered users
func (r *PostgresUserRepository) Count(ctx context.Context) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.user.count")
	defer span.End()

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return count, nil
}

func (r *PostgresUserRepository) getOne(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	query := strings.Join([]string{
		`SELECT id, email, password_hash, full_name, phone, role, created_at, updated_at FROM users`,
		where,
	}, " ")

	user := &domain.User{}
	var phone *string
	var role string

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&phone,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if phone != nil {
		user.Phone = *phone
	}
	user.Role = domain.UserRole(role)

	return user, nil
}

// nullString converts an empty string to a NULL-able pointer
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
