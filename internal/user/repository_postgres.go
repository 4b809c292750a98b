package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE unique_violation.
const uniqueViolationCode = "23505"

type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			first_name VARCHAR(50) NOT NULL,
			last_name VARCHAR(50) NOT NULL,
			email VARCHAR(50) UNIQUE,
			password VARCHAR(50) NOT NULL,
			age INTEGER,
			gender VARCHAR(50)
		)
	`
	getUserByEmailQuery = `
		SELECT id, first_name, last_name, email, password, age, gender
		FROM users
		WHERE email = $1
	`
	insertUserQuery = `
		INSERT INTO users (first_name, last_name, email, password, age, gender)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	listUsersQuery = `
		SELECT id, first_name, last_name, email, password, age, gender
		FROM users
		ORDER BY id
	`
	searchUsersQuery = `
		SELECT id, first_name, last_name, email, password, age, gender
		FROM users
		WHERE first_name ILIKE $1 ESCAPE '\' OR last_name ILIKE $1 ESCAPE '\'
		ORDER BY id
	`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Init creates the users table when it does not exist yet.
func (r *PostgresRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRowContext(ctx, getUserByEmailQuery, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("find user by email: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, user User) (User, error) {
	var age sql.NullInt64
	if user.Age != nil {
		age = sql.NullInt64{Int64: int64(*user.Age), Valid: true}
	}
	gender := sql.NullString{String: user.Gender, Valid: user.Gender != ""}

	var id int
	err := r.db.QueryRowContext(
		ctx,
		insertUserQuery,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Password,
		age,
		gender,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrConstraintViolation
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	user.ID = id
	return user, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]User, error) {
	return r.queryUsers(ctx, listUsersQuery)
}

// SearchByNameSubstring matches query case-insensitively against first and
// last name. LIKE wildcards in query are matched literally.
func (r *PostgresRepository) SearchByNameSubstring(ctx context.Context, query string) ([]User, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"
	return r.queryUsers(ctx, searchUsersQuery, pattern)
}

func (r *PostgresRepository) queryUsers(ctx context.Context, query string, args ...any) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

func scanUser(scanner rowScanner) (User, error) {
	user := User{}
	var email sql.NullString
	var age sql.NullInt64
	var gender sql.NullString

	if err := scanner.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&email,
		&user.Password,
		&age,
		&gender,
	); err != nil {
		return User{}, err
	}

	user.Email = email.String
	if age.Valid {
		v := int(age.Int64)
		user.Age = &v
	}
	user.Gender = gender.String

	return user, nil
}

// isUniqueViolation recognises the error shape of both supported drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}
