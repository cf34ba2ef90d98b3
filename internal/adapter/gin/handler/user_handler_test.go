package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	usecase "user-service/internal/usecase/user"
	pkgerrors "user-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockUserUsecase is a mock implementation of user.Usecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*usecase.CreateUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateUserResponse), args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*usecase.GetUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.GetUserResponse), args.Error(1)
}

func (m *MockUserUsecase) UpdateUser(ctx context.Context, req usecase.UpdateUserRequest) (*usecase.UpdateUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UpdateUserResponse), args.Error(1)
}

func (m *MockUserUsecase) DeleteUser(ctx context.Context, req usecase.DeleteUserRequest) (*usecase.DeleteUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeleteUserResponse), args.Error(1)
}

func (m *MockUserUsecase) ListUsers(ctx context.Context, req usecase.ListUsersRequest) (*usecase.ListUsersResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListUsersResponse), args.Error(1)
}

const (
	testID      = "0b6f2d1c-5a4e-4f3b-9c8d-7e6f5a4b3c2d"
	notFoundMsg = "User not found"
)

func setupTest(t *testing.T) (*gin.Engine, *MockUserUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUserUsecase)
	handler := NewUserHandler(mockUsecase, zaptest.NewLogger(t))

	r := gin.New()
	r.GET("/users", handler.ListUsers)
	r.POST("/users", handler.CreateUser)
	r.GET("/users/:id", handler.GetUser)
	r.PUT("/users/:id", handler.UpdateUser)
	r.DELETE("/users/:id", handler.DeleteUser)
	return r, mockUsecase
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func notFound() error {
	return pkgerrors.NewNotFoundError("user", notFoundMsg)
}

func TestListUsers(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything, usecase.ListUsersRequest{}).Return(&usecase.ListUsersResponse{
			Users: []usecase.User{
				{ID: "1", Name: "User 1", Email: "u1@x.com"},
				{ID: "2", Name: "User 2", Email: "u2@x.com"},
			},
		}, nil)

		w := doRequest(r, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp []UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []UserResponse{
			{ID: "1", Name: "User 1", Email: "u1@x.com"},
			{ID: "2", Name: "User 2", Email: "u2@x.com"},
		}, resp)
	})

	t.Run("Empty list is an empty array", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything, mock.Anything).Return(&usecase.ListUsersResponse{Users: []usecase.User{}}, nil)

		w := doRequest(r, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Usecase Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything, mock.Anything).Return(nil, pkgerrors.NewInternalError("failed to list users", errors.New("boom")))

		w := doRequest(r, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "boom")
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{Name: "Ana", Email: "ana@x.com"}).
			Return(&usecase.CreateUserResponse{User: usecase.User{ID: testID, Name: "Ana", Email: "ana@x.com"}}, nil)

		w := doRequest(r, http.MethodPost, "/users", `{"name":"Ana","email":"ana@x.com"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "/users/"+testID, w.Header().Get("Location"))
		mockUsecase.AssertExpectations(t)
	})

	t.Run("Empty name is accepted", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{Name: "", Email: "ana@x.com"}).
			Return(&usecase.CreateUserResponse{User: usecase.User{ID: testID, Email: "ana@x.com"}}, nil)

		w := doRequest(r, http.MethodPost, "/users", `{"name":"","email":"ana@x.com"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Invalid Request Body", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := doRequest(r, http.MethodPost, "/users", "invalid json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	validationCases := []struct {
		name    string
		body    string
		message string
	}{
		{name: "Missing name", body: `{"email":"ana@x.com"}`, message: "name is required"},
		{name: "Missing email", body: `{"name":"Ana"}`, message: "email is required"},
		{name: "Invalid email", body: `{"name":"Ana","email":"not-an-email"}`, message: "email must be a valid email"},
		{name: "Wrong type", body: `{"name":42,"email":"ana@x.com"}`, message: "invalid request body"},
	}
	for _, tc := range validationCases {
		t.Run(tc.name, func(t *testing.T) {
			r, mockUsecase := setupTest(t)

			w := doRequest(r, http.MethodPost, "/users", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "validation_error", resp.Error)
			assert.Contains(t, resp.Message, tc.message)
			mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		})
	}

	t.Run("Usecase Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).Return(nil, errors.New("internal error"))

		w := doRequest(r, http.MethodPost, "/users", `{"name":"Ana","email":"ana@x.com"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: testID}).
			Return(&usecase.GetUserResponse{User: usecase.User{ID: testID, Name: "Ana", Email: "ana@x.com"}}, nil)

		w := doRequest(r, http.MethodGet, "/users/"+testID, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"`+testID+`","name":"Ana","email":"ana@x.com"}`, w.Body.String())
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := doRequest(r, http.MethodGet, "/users/abc", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid_id", resp.Error)
		mockUsecase.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: testID}).Return(nil, notFound())

		w := doRequest(r, http.MethodGet, "/users/"+testID, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("UpdateUser", mock.Anything, usecase.UpdateUserRequest{ID: testID, Name: "Ana B"}).
			Return(&usecase.UpdateUserResponse{User: usecase.User{ID: testID, Name: "Ana B", Email: "ana@x.com"}}, nil)

		w := doRequest(r, http.MethodPut, "/users/"+testID, `{"name":"Ana B"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"`+testID+`","name":"Ana B","email":"ana@x.com"}`, w.Body.String())
	})

	t.Run("Empty body updates nothing", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("UpdateUser", mock.Anything, usecase.UpdateUserRequest{ID: testID}).
			Return(&usecase.UpdateUserResponse{User: usecase.User{ID: testID, Name: "Ana", Email: "ana@x.com"}}, nil)

		w := doRequest(r, http.MethodPut, "/users/"+testID, "")

		assert.Equal(t, http.StatusOK, w.Code)
		mockUsecase.AssertExpectations(t)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, _ := setupTest(t)

		w := doRequest(r, http.MethodPut, "/users/abc", "{}")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid email", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := doRequest(r, http.MethodPut, "/users/"+testID, `{"email":"nope"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).Return(nil, notFound())

		w := doRequest(r, http.MethodPut, "/users/"+testID, `{"name":"Ana B"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: testID}).Return(&usecase.DeleteUserResponse{ID: testID}, nil)

		w := doRequest(r, http.MethodDelete, "/users/"+testID, "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, _ := setupTest(t)

		w := doRequest(r, http.MethodDelete, "/users/123", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: testID}).Return(nil, notFound())

		w := doRequest(r, http.MethodDelete, "/users/"+testID, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFormatValidationError(t *testing.T) {
	assert.Equal(t, "invalid request body: boom", formatValidationError(errors.New("boom")))
}
