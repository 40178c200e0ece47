package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	usecase "rest-user-service/internal/usecase/user"
	pkgerrors "rest-user-service/pkg/errors"
)

// MockUserUsecase is a mock implementation of user.Usecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) ListUsers(ctx context.Context, req usecase.ListUsersRequest) (*usecase.ListUsersResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListUsersResponse), args.Error(1)
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) ReplaceUser(ctx context.Context, req usecase.ReplaceUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) PatchUser(ctx context.Context, req usecase.PatchUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) DeleteUser(ctx context.Context, req usecase.DeleteUserRequest) (*usecase.DeleteUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeleteUserResponse), args.Error(1)
}

func (m *MockUserUsecase) ResolveUserIndex(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func setupTest(t *testing.T) (*gin.Engine, *UserHandler, *MockUserUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUserUsecase)
	t.Cleanup(func() { mockUsecase.AssertExpectations(t) })
	handler := NewUserHandler(mockUsecase, zaptest.NewLogger(t))

	r := gin.New()
	return r, handler, mockUsecase
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
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

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestListUsers(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users", handler.ListUsers)

		mockUsecase.On("ListUsers", mock.Anything, usecase.ListUsersRequest{}).Return(&usecase.ListUsersResponse{
			Users: []usecase.User{{ID: 1, Username: "amr", DisplayName: "Amr"}},
		}, nil)

		w := doJSON(r, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":1,"username":"amr","displayName":"Amr"}]`, w.Body.String())
	})

	t.Run("Empty result is an empty array", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users", handler.ListUsers)

		mockUsecase.On("ListUsers", mock.Anything, usecase.ListUsersRequest{Filter: "username", Value: "zz"}).
			Return(&usecase.ListUsersResponse{}, nil)

		w := doJSON(r, http.MethodGet, "/users?filter=username&value=zz", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Invalid filter", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.GET("/users", handler.ListUsers)

		w := doJSON(r, http.MethodGet, "/users?filter=email&value=x", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "validation_error", resp.Error)
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "filter", resp.Details[0].Field)
	})

	t.Run("Usecase Error", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users", handler.ListUsers)

		mockUsecase.On("ListUsers", mock.Anything, mock.Anything).Return(nil, errors.New("internal error"))

		w := doJSON(r, http.MethodGet, "/users", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.POST("/users", handler.CreateUser)

		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{Username: "karim", DisplayName: "Karim"}).
			Return(&usecase.User{ID: 8, Username: "karim", DisplayName: "Karim"}, nil)

		w := doJSON(r, http.MethodPost, "/users", `{"username":"karim","displayName":"Karim"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, UserResponse{ID: 8, Username: "karim", DisplayName: "Karim"}, resp)
	})

	t.Run("Invalid Request Body", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.POST("/users", handler.CreateUser)

		w := doJSON(r, http.MethodPost, "/users", "invalid json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_error", decodeError(t, w).Error)
	})

	t.Run("Validation Error", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.POST("/users", handler.CreateUser)

		w := doJSON(r, http.MethodPost, "/users", `{"username":"abc"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		fields := make([]string, 0, len(resp.Details))
		for _, d := range resp.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"username", "displayName"}, fields)
	})

	t.Run("Usecase Validation Error", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.POST("/users", handler.CreateUser)

		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).Return(nil,
			pkgerrors.NewFieldsValidationError("1 invalid field(s)", []pkgerrors.FieldError{{Field: "displayName", Message: "displayName is required"}}))

		w := doJSON(r, http.MethodPost, "/users", `{"username":"karim","displayName":"<i></i>"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "displayName", resp.Details[0].Field)
	})

	t.Run("Usecase Error", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.POST("/users", handler.CreateUser)

		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).Return(nil, errors.New("internal error"))

		w := doJSON(r, http.MethodPost, "/users", `{"username":"karim","displayName":"Karim"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users/:id", handler.GetUser)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 1}).
			Return(&usecase.User{ID: 1, Username: "amr", DisplayName: "Amr"}, nil)

		w := doJSON(r, http.MethodGet, "/users/1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":1,"username":"amr","displayName":"Amr"}`, w.Body.String())
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.GET("/users/:id", handler.GetUser)

		w := doJSON(r, http.MethodGet, "/users/abc", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_id", decodeError(t, w).Error)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users/:id", handler.GetUser)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 1}).
			Return(nil, pkgerrors.NewNotFoundError("user", ""))

		w := doJSON(r, http.MethodGet, "/users/1", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decodeError(t, w).Error)
	})

	t.Run("Uses resolved id from context", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users/:id", func(c *gin.Context) {
			c.Set("user_id", int64(5))
			c.Next()
		}, handler.GetUser)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 5}).
			Return(&usecase.User{ID: 5, Username: "omir", DisplayName: "Omir"}, nil)

		w := doJSON(r, http.MethodGet, "/users/not-parsed", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestReplaceUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.PUT("/users/:id", handler.ReplaceUser)

		mockUsecase.On("ReplaceUser", mock.Anything, usecase.ReplaceUserRequest{ID: 2, Username: "ahmed_2", DisplayName: "Ahmed"}).
			Return(&usecase.User{ID: 2, Username: "ahmed_2", DisplayName: "Ahmed"}, nil)

		w := doJSON(r, http.MethodPut, "/users/2", `{"username":"ahmed_2","displayName":"Ahmed"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":2,"username":"ahmed_2","displayName":"Ahmed"}`, w.Body.String())
	})

	t.Run("Missing fields", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.PUT("/users/:id", handler.ReplaceUser)

		w := doJSON(r, http.MethodPut, "/users/2", `{"displayName":"Ahmed"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "username", resp.Details[0].Field)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.PUT("/users/:id", handler.ReplaceUser)

		w := doJSON(r, http.MethodPut, "/users/x", `{"username":"ahmed_2","displayName":"Ahmed"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.PUT("/users/:id", handler.ReplaceUser)

		mockUsecase.On("ReplaceUser", mock.Anything, mock.Anything).Return(nil, pkgerrors.NewNotFoundError("user", ""))

		w := doJSON(r, http.MethodPut, "/users/77", `{"username":"ahmed_2","displayName":"Ahmed"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPatchUser(t *testing.T) {
	t.Run("Partial body", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.PATCH("/users/:id", handler.PatchUser)

		mockUsecase.On("PatchUser", mock.Anything, mock.MatchedBy(func(req usecase.PatchUserRequest) bool {
			return req.ID == 3 && req.Username == nil && req.DisplayName != nil && *req.DisplayName == "Ali B."
		})).Return(&usecase.User{ID: 3, Username: "ali", DisplayName: "Ali B."}, nil)

		w := doJSON(r, http.MethodPatch, "/users/3", `{"displayName":"Ali B."}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":3,"username":"ali","displayName":"Ali B."}`, w.Body.String())
	})

	t.Run("Empty body", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.PATCH("/users/:id", handler.PatchUser)

		mockUsecase.On("PatchUser", mock.Anything, usecase.PatchUserRequest{ID: 3}).
			Return(&usecase.User{ID: 3, Username: "ali", DisplayName: "Ali"}, nil)

		w := doJSON(r, http.MethodPatch, "/users/3", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Present field too short", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.PATCH("/users/:id", handler.PatchUser)

		w := doJSON(r, http.MethodPatch, "/users/3", `{"username":"al"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "username", resp.Details[0].Field)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.DELETE("/users/:id", handler.DeleteUser)

		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: 4}).
			Return(&usecase.DeleteUserResponse{ID: 4}, nil)

		w := doJSON(r, http.MethodDelete, "/users/4", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("Not Found", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.DELETE("/users/:id", handler.DeleteUser)

		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: 40}).
			Return(nil, pkgerrors.NewNotFoundError("user", ""))

		w := doJSON(r, http.MethodDelete, "/users/40", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		code  int
		error string
	}{
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", pkgerrors.NewNotFoundError("user", "")), code: http.StatusNotFound, error: "not_found"},
		{name: "wrapped validation", err: fmt.Errorf("check: %w", pkgerrors.NewValidationError("username", "too short")), code: http.StatusBadRequest, error: "validation_error"},
		{name: "internal", err: pkgerrors.NewInternalError("failed to store user", errors.New("boom")), code: http.StatusInternalServerError, error: "internal_error"},
		{name: "untyped", err: errors.New("boom"), code: http.StatusInternalServerError, error: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, handler, mockUsecase := setupTest(t)
			r.DELETE("/users/:id", handler.DeleteUser)

			mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: 9}).Return(nil, tt.err)

			w := doJSON(r, http.MethodDelete, "/users/9", "")

			assert.Equal(t, tt.code, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.error, resp.Error)
			if tt.code == http.StatusBadRequest {
				require.Len(t, resp.Details, 1)
				assert.Equal(t, "username", resp.Details[0].Field)
			}
		})
	}
}
