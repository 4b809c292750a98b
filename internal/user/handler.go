package user

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	messageCreated       = "User created successfully."
	messageAlreadyExists = "User with this email already exists."

	layoutMain = "layouts/main"
)

var requiredCreateFields = []string{"first_name", "last_name", "email", "password", "gender"}

type Handler struct {
	service *Service
	logger  logrus.FieldLogger
}

func NewHandler(service *Service, logger logrus.FieldLogger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.home)
	app.Get("/create-user", h.createUserForm)
	app.Post("/create-user", h.createUser)
	app.Get("/all-users", h.getUsers)
	app.Get("/search-user", h.searchUserForm)
	app.Get("/search-users", h.searchUsers)
}

func (h *Handler) home(c *fiber.Ctx) error {
	return c.Render("templates/home", fiber.Map{}, layoutMain)
}

func (h *Handler) createUserForm(c *fiber.Ctx) error {
	return c.Render("templates/create_user", fiber.Map{}, layoutMain)
}

func (h *Handler) createUser(c *fiber.Ctx) error {
	fields := make(map[string]string, len(requiredCreateFields))
	for _, key := range requiredCreateFields {
		value, ok := formValue(c, key)
		if !ok {
			h.logger.WithField("field", key).Warn("create user: missing form field")
			return fiber.NewError(fiber.StatusBadRequest, fmt.Errorf("%w: %s", ErrMissingField, key).Error())
		}
		fields[key] = value
	}
	age, _ := formValue(c, "age")

	created, err := h.service.CreateUser(c.UserContext(), CreateUserInput{
		FirstName: fields["first_name"],
		LastName:  fields["last_name"],
		Email:     fields["email"],
		Password:  fields["password"],
		Age:       ParseAge(age),
		Gender:    fields["gender"],
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return c.Render("templates/create_user", fiber.Map{"Message": messageAlreadyExists}, layoutMain)
		}
		return fmt.Errorf("create user: %w", err)
	}

	h.logger.WithField("user_id", created.ID).Info("user created")
	return c.Render("templates/create_user", fiber.Map{"Message": messageCreated}, layoutMain)
}

func (h *Handler) getUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	return c.Render("templates/all_users", fiber.Map{"Users": PresentUsers(users)}, layoutMain)
}

func (h *Handler) searchUserForm(c *fiber.Ctx) error {
	return c.Render("templates/search_user", fiber.Map{"Searched": false, "Query": ""}, layoutMain)
}

func (h *Handler) searchUsers(c *fiber.Ctx) error {
	result, err := h.service.SearchUsers(c.UserContext(), c.Query("query"))
	if err != nil {
		return fmt.Errorf("search users: %w", err)
	}
	return c.Render("templates/search_user", fiber.Map{
		"Searched": true,
		"Users":    PresentUsers(result.Users),
		"Query":    result.Query,
	}, layoutMain)
}

// formValue reports whether key was submitted at all, so that an empty
// field can be told apart from a missing one.
func formValue(c *fiber.Ctx, key string) (string, bool) {
	if args := c.Request().PostArgs(); args.Has(key) {
		return string(args.Peek(key)), true
	}
	if form, err := c.MultipartForm(); err == nil {
		if values, ok := form.Value[key]; ok && len(values) > 0 {
			return values[0], true
		}
	}
	return "", false
}
