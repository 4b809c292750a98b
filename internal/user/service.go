package user

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

type Service struct {
	repo Repository
}

// CreateUserInput carries the fields submitted on the creation form.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Age       *int
	Gender    string
}

// SearchResult pairs the matches with the query that produced them.
type SearchResult struct {
	Users []User
	Query string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateUser stores a new user unless one with the same email exists. A
// unique violation raised by the store during a concurrent create is
// reported as ErrAlreadyExists too.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (User, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return User{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	created, err := s.repo.Insert(ctx, User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  input.Password,
		Age:       input.Age,
		Gender:    input.Gender,
	})
	if err != nil {
		if errors.Is(err, ErrConstraintViolation) {
			return User{}, ErrAlreadyExists
		}
		return User{}, err
	}

	return created, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) SearchUsers(ctx context.Context, query string) (SearchResult, error) {
	users, err := s.repo.SearchByNameSubstring(ctx, query)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Users: users, Query: query}, nil
}

// ParseAge coerces a form value to an int. Anything that is not a number
// yields nil rather than an error.
func ParseAge(raw string) *int {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &age
}
