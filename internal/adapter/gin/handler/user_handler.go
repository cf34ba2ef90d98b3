package handler

import (
	"errors"
	"io"
	"net/http"

	"user-service/internal/usecase/user"
	pkgerrors "user-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserURI binds the :id path parameter. Every ID handed out by the service is
// a UUIDv4, so anything that is not UUID-shaped is rejected before lookup.
type UserURI struct {
	ID string `uri:"id" binding:"required,uuid_rfc4122"`
}

// CreateUserRequest represents the HTTP request body for creating a user.
// Name is a pointer so that presence is required while an empty string is accepted.
type CreateUserRequest struct {
	Name  *string `json:"name" binding:"required" example:"Ana"`
	Email *string `json:"email" binding:"required,email" example:"ana@x.com"`
}

// UpdateUserRequest represents the HTTP request body for a partial update
type UpdateUserRequest struct {
	Name  string `json:"name,omitempty" example:"Ana B"`
	Email string `json:"email,omitempty" binding:"omitempty,email" example:"ana.b@x.com"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID    string `json:"id" example:"0b6f2d1c-5a4e-4f3b-9c8d-7e6f5a4b3c2d"`
	Name  string `json:"name" example:"Ana"`
	Email string `json:"email" example:"ana@x.com"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// ListUsers handles GET /users
//
//	@Summary		List users
//	@Description	List all users in insertion order
//	@Tags			users
//	@Produce		json
//	@Success		200	{array}		UserResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{})
	if err != nil {
		h.handleError(c, "ListUsers", err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = toResponse(u)
	}

	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /users/:id
//
//	@Summary		Get user
//	@Description	Get a user by ID
//	@Tags			users
//	@Produce		json
//	@Param			id	path		string	true	"User ID"	format(uuid)
//	@Success		200	{object}	UserResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.handleError(c, "GetUser", err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp.User))
}

// CreateUser handles POST /users
//
//	@Summary		Create user
//	@Description	Create a new user; the ID is generated by the server
//	@Tags			users
//	@Accept			json
//	@Param			user	body	CreateUserRequest	true	"User to create"
//	@Success		201		"User created"
//	@Header			201		{string}	Location	"/users/{id}"
//	@Failure		400		{object}	ErrorResponse
//	@Router			/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: formatValidationError(err),
		})
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:  *req.Name,
		Email: *req.Email,
	})
	if err != nil {
		h.handleError(c, "CreateUser", err)
		return
	}

	c.Header("Location", "/users/"+resp.User.ID)
	c.Status(http.StatusCreated)
}

// UpdateUser handles PUT /users/:id
//
//	@Summary		Update user
//	@Description	Partially update a user; omitted fields keep their value
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"User ID"	format(uuid)
//	@Param			user	body		UpdateUserRequest	true	"Fields to change"
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	// An empty body is an update with no fields
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.log.Warn("Invalid update user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: formatValidationError(err),
		})
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.handleError(c, "UpdateUser", err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp.User))
}

// DeleteUser handles DELETE /users/:id
//
//	@Summary		Delete user
//	@Description	Delete a user by ID
//	@Tags			users
//	@Param			id	path	string	true	"User ID"	format(uuid)
//	@Success		204	"User deleted"
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if _, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id}); err != nil {
		h.handleError(c, "DeleteUser", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// bindID validates the :id path parameter, writing a 400 response when it is malformed
func (h *UserHandler) bindID(c *gin.Context) (string, bool) {
	var uri UserURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.log.Warn("Invalid user ID", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "User ID must be a valid UUID",
		})
		return "", false
	}
	return uri.ID, true
}

// handleError converts usecase errors to appropriate HTTP responses
func (h *UserHandler) handleError(c *gin.Context, op string, err error) {
	status := pkgerrors.StatusCode(err)

	switch status {
	case http.StatusNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case http.StatusBadRequest:
		h.log.Warn(op+" rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		})
	default:
		h.log.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

func toResponse(u user.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
