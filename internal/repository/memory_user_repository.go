package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/EobardThawne2/parking-beta/internal/domain"
)

// MemoryUserRepository is an in-memory implementation of UserRepository
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

var _ UserRepository = (*MemoryUserRepository)(nil)

// NewMemoryUserRepository creates an empty user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

// Create stores a new user
func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return domain.ErrUserAlreadyExists
	}

	clone := cloneUser(user)
	clone.Email = email
	r.byID[clone.ID] = clone
	r.byEmail[email] = clone

	return nil
}

// GetByEmail returns the user with the given email
func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// GetByID returns the user with the given ID
func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// Count returns the number of registered users
func (r *MemoryUserRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}
