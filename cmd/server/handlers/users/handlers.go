package users

import (
	"context"
	"errors"

	"user-vault/cmd/server/handlers/handlerutil"
	"user-vault/cmd/server/handlers/httperr"
	"user-vault/internal/logger"
	"user-vault/internal/services/users"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UsersService defines the interface for the users service
type UsersService interface {
	Register(ctx context.Context, req users.RegisterRequest) (*users.User, error)
	Login(ctx context.Context, req users.LoginRequest) (*users.LoginResponse, error)
	List(ctx context.Context) ([]*users.User, error)
	Get(ctx context.Context, id bson.ObjectID) (*users.User, error)
	Update(ctx context.Context, id bson.ObjectID, req users.UpdateUserRequest) (*users.User, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

// MessageResponse is the body for message-only endpoints
type MessageResponse struct {
	Message string `json:"message" example:"User registered successfully"`
}

// UpdateResponse carries the confirmation message and the updated record
type UpdateResponse struct {
	Message string      `json:"message" example:"User updated successfully"`
	User    *users.User `json:"user"`
}

// Handlers contains the user HTTP handlers
type Handlers struct {
	service   UsersService
	validator *validator.Validate
}

// NewHandlers creates new user handlers
func NewHandlers(service UsersService, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body users.RegisterRequest true "Register request"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} httperr.E
// @Failure 500 {object} httperr.E
// @Router /register [post]
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req users.RegisterRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Register"); err != nil {
		return err
	}

	if _, err := h.service.Register(c.Context(), req); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return httperr.Fail(httperr.ErrEmailRegistered)
		}
		logger.L().Error("register service failed", "handler", "Register", "email", req.Email, "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.Status(fiber.StatusCreated).JSON(MessageResponse{Message: "User registered successfully"})
}

// Login handles user authentication
// @Summary Authenticate a user and issue a bearer token
// @Tags users
// @Accept json
// @Produce json
// @Param request body users.LoginRequest true "Login request"
// @Success 200 {object} users.LoginResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 500 {object} httperr.E
// @Router /login [post]
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req users.LoginRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Login"); err != nil {
		return err
	}

	resp, err := h.service.Login(c.Context(), req)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			return httperr.Fail(httperr.ErrBadCredentials)
		}
		logger.L().Error("login service failed", "handler", "Login", "email", req.Email, "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(resp)
}

// List returns all user records
// @Summary Retrieve all users
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {array} users.User
// @Failure 401 {object} httperr.E
// @Failure 500 {object} httperr.E
// @Router /users [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.Context())
	if err != nil {
		logger.L().Error("list service failed", "handler", "List", "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(list)
}

// Get returns one user by id
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Success 200 {object} users.User
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Failure 500 {object} httperr.E
// @Router /getUser/{id} [get]
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractUserIDParam(c, "Get")
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Context(), id)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Get", id)
	}

	return c.JSON(user)
}

// Update overwrites the supplied profile fields of a user
// @Summary Update a user by ID
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Param request body users.UpdateUserRequest true "Fields to update; omitted fields stay unchanged"
// @Success 200 {object} UpdateResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Failure 500 {object} httperr.E
// @Router /updateUser/{id} [put]
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractUserIDParam(c, "Update")
	if err != nil {
		return err
	}

	var req users.UpdateUserRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Update"); err != nil {
		return err
	}

	user, err := h.service.Update(c.Context(), id, req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Update", id)
	}

	return c.JSON(UpdateResponse{Message: "User updated successfully", User: user})
}

// Delete removes a user by id
// @Summary Delete a user by ID
// @Tags users
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Failure 500 {object} httperr.E
// @Router /deleteUser/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractUserIDParam(c, "Delete")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return handlerutil.HandleServiceError(err, "Delete", id)
	}

	return c.JSON(MessageResponse{Message: "User deleted successfully"})
}
