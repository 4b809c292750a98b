//go:build integration

package user

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/wichananm65/user-registry/internal/config"
	"github.com/wichananm65/user-registry/internal/database"
)

func startPostgres(t *testing.T, driver string) *PostgresRepository {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	db, err := database.Open(ctx, config.Database{
		Driver:       driver,
		URL:          fmt.Sprintf("postgresql://test:test@%s:%s/testdb?sslmode=disable", host, port.Port()),
		MaxOpenConns: 5,
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewPostgresRepository(db)
	if err := repo.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	return repo
}

func TestPostgresRepository_Integration(t *testing.T) {
	for _, driver := range []string{"pgx", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			repo := startPostgres(t, driver)
			svc := NewService(repo)
			ctx := context.Background()

			age := 30
			ada, err := svc.CreateUser(ctx, CreateUserInput{
				FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com", Password: "p", Age: &age, Gender: "F",
			})
			if err != nil {
				t.Fatalf("create failed: %v", err)
			}
			if ada.ID < 1 {
				t.Fatalf("expected generated id >= 1, got %d", ada.ID)
			}

			if _, err := svc.CreateUser(ctx, CreateUserInput{FirstName: "A", LastName: "L", Email: "ada@x.com", Password: "p"}); !errors.Is(err, ErrAlreadyExists) {
				t.Fatalf("expected ErrAlreadyExists, got %v", err)
			}
			if _, err := repo.Insert(ctx, User{FirstName: "A", LastName: "L", Email: "ada@x.com", Password: "p"}); !errors.Is(err, ErrConstraintViolation) {
				t.Fatalf("expected ErrConstraintViolation from the table constraint, got %v", err)
			}

			if _, err := svc.CreateUser(ctx, CreateUserInput{FirstName: "100%", LastName: "Sure", Email: "pct@x.com", Password: "p"}); err != nil {
				t.Fatalf("create failed: %v", err)
			}

			result, err := svc.SearchUsers(ctx, "LOV")
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if len(result.Users) != 1 || result.Users[0].Email != "ada@x.com" {
				t.Fatalf("expected Ada, got %+v", result.Users)
			}
			if result.Users[0].Age == nil || *result.Users[0].Age != 30 {
				t.Fatalf("age did not round-trip: %+v", result.Users[0])
			}

			result, err = svc.SearchUsers(ctx, "%")
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if len(result.Users) != 1 || result.Users[0].Email != "pct@x.com" {
				t.Fatalf("expected %% to match literally, got %+v", result.Users)
			}

			result, err = svc.SearchUsers(ctx, "zzz")
			if err != nil || len(result.Users) != 0 {
				t.Fatalf("expected no matches, got %+v (err %v)", result.Users, err)
			}

			all, err := svc.ListUsers(ctx)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			result, err = svc.SearchUsers(ctx, "")
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if len(all) != 2 || len(result.Users) != len(all) {
				t.Fatalf("expected empty search to equal list, got %d vs %d", len(result.Users), len(all))
			}
		})
	}
}
