package user

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	ErrNotFound            = errors.New("user not found")
	ErrAlreadyExists       = errors.New("user with this email already exists")
	ErrConstraintViolation = errors.New("unique constraint violated")
	ErrMissingField        = errors.New("missing required field")
)

// Repository is the record store behind the user service.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	Insert(ctx context.Context, user User) (User, error)
	ListAll(ctx context.Context) ([]User, error)
	SearchByNameSubstring(ctx context.Context, query string) ([]User, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	users  []User
	nextID int
}

var _ Repository = (*InMemoryRepository)(nil)

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{
		users:  make([]User, 0, len(seed)),
		nextID: 1,
	}

	maxID := 0
	for _, user := range seed {
		repo.users = append(repo.users, user)
		if user.ID > maxID {
			maxID = user.ID
		}
	}

	repo.nextID = maxID + 1
	return repo
}

func (r *InMemoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}

	return User{}, ErrNotFound
}

// Insert assigns the next id. Like the UNIQUE column in postgres, a second
// row with the same email is rejected.
func (r *InMemoryRepository) Insert(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return User{}, ErrConstraintViolation
		}
	}

	user.ID = r.nextID
	r.nextID++
	r.users = append(r.users, user)
	return user, nil
}

func (r *InMemoryRepository) ListAll(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, len(r.users))
	copy(users, r.users)
	return users, nil
}

func (r *InMemoryRepository) SearchByNameSubstring(_ context.Context, query string) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	users := make([]User, 0)
	for _, user := range r.users {
		if strings.Contains(strings.ToLower(user.FirstName), needle) ||
			strings.Contains(strings.ToLower(user.LastName), needle) {
			users = append(users, user)
		}
	}

	return users, nil
}
