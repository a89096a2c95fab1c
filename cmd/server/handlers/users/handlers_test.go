package users

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"user-vault/cmd/server/middlewares"
	"user-vault/cmd/server/testutil"
	"user-vault/internal/services/users"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	registerEndpoint = "/register"
	loginEndpoint    = "/login"
	usersEndpoint    = "/users"
	testEmail        = "test@example.com"
	testPassword     = "Password123"
)

// MockUsersService mocks the users service
type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) Register(ctx context.Context, req users.RegisterRequest) (*users.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUsersService) Login(ctx context.Context, req users.LoginRequest) (*users.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.LoginResponse), args.Error(1)
}

func (m *MockUsersService) List(ctx context.Context) ([]*users.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*users.User), args.Error(1)
}

func (m *MockUsersService) Get(ctx context.Context, id bson.ObjectID) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUsersService) Update(ctx context.Context, id bson.ObjectID, req users.UpdateUserRequest) (*users.User, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUsersService) Delete(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// TestSetup contains common test setup data
type TestSetup struct {
	MockService *MockUsersService
	App         *fiber.App
}

// SetupTest wires the handlers into a Fiber app with the real auth gate,
// mirroring the production route table.
func SetupTest(t *testing.T) *TestSetup {
	t.Helper()

	mockService := &MockUsersService{}
	app := testutil.CreateTestApp(t)
	v := testutil.CreateTestValidator(t)

	h := NewHandlers(mockService, v)
	authMW := middlewares.Auth(testutil.TestConfig())

	app.Post(registerEndpoint, h.Register)
	app.Post(loginEndpoint, h.Login)
	app.Get(usersEndpoint, authMW, h.List)
	app.Get("/getUser/:id", authMW, h.Get)
	app.Put("/updateUser/:id", authMW, h.Update)
	app.Delete("/deleteUser/:id", authMW, h.Delete)

	return &TestSetup{
		MockService: mockService,
		App:         app,
	}
}

func validToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := testutil.CreateTestJWT(userID, []byte(testutil.TestJWTSecret), time.Hour)
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, dst))
}

func registerBody() map[string]string {
	return map[string]string{
		"email":       testEmail,
		"password":    testPassword,
		"UserName":    "John Doe",
		"phoneNumber": "+1234567890",
		"address":     "123 Main St, City",
	}
}

func TestRegister(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		setup := SetupTest(t)
		setup.MockService.On("Register", mock.Anything, mock.AnythingOfType("users.RegisterRequest")).
			Return(&users.User{ID: bson.NewObjectID(), Email: testEmail}, nil)

		resp, err := setup.App.Test(testutil.CreateJSONRequest(http.MethodPost, registerEndpoint, registerBody()))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body MessageResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "User registered successfully", body.Message)
		setup.MockService.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		setup := SetupTest(t)
		setup.MockService.On("Register", mock.Anything, mock.Anything).
			Return(nil, users.ErrEmailTaken)

		resp, err := setup.App.Test(testutil.CreateJSONRequest(http.MethodPost, registerEndpoint, registerBody()))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Email already registered", body["message"])
	})

	t.Run("missing required fields", func(t *testing.T) {
		setup := SetupTest(t)

		resp, err := setup.App.Test(testutil.CreateJSONRequest(http.MethodPost, registerEndpoint, map[string]string{
			"email":    testEmail,
			"password": testPassword,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		setup.MockService.AssertNotCalled(t, "Register")
	})

	t.Run("weak password", func(t *testing.T) {
		setup := SetupTest(t)

		body := registerBody()
		body["password"] = "weak"
		resp, err := setup.App.Test(testutil.CreateJSONRequest(http.MethodPost, registerEndpoint, body))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		setup.MockService.AssertNotCalled(t, "Register")
	})

	t.Run("store failure is a generic 500", func(t *testing.T) {
		setup := SetupTest(t)
		setup.MockService.On("Register", mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		resp, err := setup.App.Test(testutil.CreateJSONRequest(http.MethodPost, registerEndpoint, registerBody()))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Internal server error", body["message"])
		assert.NotContains(t, body["message"], assert.AnError.Error())
	})
}

func TestLogin(t *testing.T) {
	t.Run("successful login", func(t *testing.T) {
		id := bson.NewObjectID()
		setup := SetupTest(t)
		setup.MockService.On("Login", mock.Anything, users.LoginRequest{Email: testEmail, Password: testPassword}).
			Return(&users.LoginResponse{ID: id.Hex(), Token: "signed-token"}, nil)

		resp, err := setup.App.Test(testutil.CreateJSONRequest(http.MethodPost, loginEndpoint, map[string]string{
			"email":    testEmail,
			"password": testPassword,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body users.LoginResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, id.Hex(), body.ID)
		assert.Equal(t, "signed-token", body.Token)
	})

	t.Run("bad credentials are uniform", func(t *testing.T) {
		setup := SetupTest(t)
		setup.MockService.On("Login", mock.Anything, mock.Anything).
			Return(nil, users.ErrInvalidCredentials)

		resp, err := setup.App.Test(testutil.CreateJSONRequest(http.MethodPost, loginEndpoint, map[string]string{
			"email":    testEmail,
			"password": "WrongPassword1",
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Invalid email or password", body["message"])
	})

	t.Run("store failure is a generic 500", func(t *testing.T) {
		setup := SetupTest(t)
		setup.MockService.On("Login", mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		resp, err := setup.App.Test(testutil.CreateJSONRequest(http.MethodPost, loginEndpoint, map[string]string{
			"email":    testEmail,
			"password": testPassword,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestAuthGate(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		setup := SetupTest(t)

		resp, err := setup.App.Test(testutil.CreateJSONRequest(http.MethodGet, usersEndpoint, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Unauthorized: Token not provided", body["message"])
		setup.MockService.AssertNotCalled(t, "List")
	})

	t.Run("malformed token", func(t *testing.T) {
		setup := SetupTest(t)

		resp, err := setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodGet, usersEndpoint, nil, "not-a-jwt"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Unauthorized: Invalid token", body["message"])
	})

	t.Run("wrong signature", func(t *testing.T) {
		setup := SetupTest(t)

		token, err := testutil.CreateTestJWT(bson.NewObjectID().Hex(), []byte("some-other-secret-that-is-32-chars!!"), time.Hour)
		require.NoError(t, err)

		resp, err := setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodGet, usersEndpoint, nil, token))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token with valid signature", func(t *testing.T) {
		setup := SetupTest(t)

		token, err := testutil.CreateTestJWT(bson.NewObjectID().Hex(), []byte(testutil.TestJWTSecret), -time.Minute)
		require.NoError(t, err)

		resp, err := setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodGet, usersEndpoint, nil, token))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Unauthorized: Invalid token", body["message"])
	})

	t.Run("valid token", func(t *testing.T) {
		setup := SetupTest(t)
		setup.MockService.On("List", mock.Anything).Return([]*users.User{}, nil)

		resp, err := setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodGet, usersEndpoint, nil, validToken(t, bson.NewObjectID().Hex())))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		setup.MockService.AssertExpectations(t)
	})

	t.Run("bearer prefix is optional", func(t *testing.T) {
		setup := SetupTest(t)
		setup.MockService.On("List", mock.Anything).Return([]*users.User{}, nil)

		req := testutil.CreateJSONRequest(http.MethodGet, usersEndpoint, nil)
		req.Header.Set("Authorization", validToken(t, bson.NewObjectID().Hex()))

		resp, err := setup.App.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("gate does not enforce ownership or existence", func(t *testing.T) {
		// Token subject and path id are unrelated; the gate only checks the
		// token itself, so the request still succeeds.
		pathID := bson.NewObjectID()
		setup := SetupTest(t)
		setup.MockService.On("Get", mock.Anything, pathID).Return(&users.User{ID: pathID}, nil)

		token := validToken(t, bson.NewObjectID().Hex())
		resp, err := setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodGet, "/getUser/"+pathID.Hex(), nil, token))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		setup.MockService.AssertExpectations(t)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		id := bson.NewObjectID()
		setup := SetupTest(t)
		setup.MockService.On("Get", mock.Anything, id).Return(&users.User{
			ID:           id,
			Email:        testEmail,
			PasswordHash: "$2a$10$secretdigest",
			UserName:     "John Doe",
		}, nil)

		resp, err := setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodGet, "/getUser/"+id.Hex(), nil, validToken(t, id.Hex())))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), testEmail)
		assert.NotContains(t, string(raw), "secretdigest", "password digest must never be serialized")
	})

	t.Run("unknown id", func(t *testing.T) {
		id := bson.NewObjectID()
		setup := SetupTest(t)
		setup.MockService.On("Get", mock.Anything, id).Return(nil, users.ErrUserNotFound)

		resp, err := setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodGet, "/getUser/"+id.Hex(), nil, validToken(t, id.Hex())))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "User not found", body["message"])
	})

	t.Run("non-ObjectID id reads as not found", func(t *testing.T) {
		setup := SetupTest(t)

		resp, err := setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodGet, "/getUser/not-hex", nil, validToken(t, bson.NewObjectID().Hex())))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		setup.MockService.AssertNotCalled(t, "Get")
	})
}

func TestListUsers(t *testing.T) {
	setup := SetupTest(t)
	setup.MockService.On("List", mock.Anything).Return([]*users.User{
		{ID: bson.NewObjectID(), Email: "a@example.com", PasswordHash: "digest-a"},
		{ID: bson.NewObjectID(), Email: "b@example.com", PasswordHash: "digest-b"},
	}, nil)

	resp, err := setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodGet, usersEndpoint, nil, validToken(t, bson.NewObjectID().Hex())))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 2)
	assert.NotContains(t, string(raw), "digest-", "password digests must never be serialized")
}

func TestUpdateUser(t *testing.T) {
	t.Run("partial patch leaves omitted fields alone", func(t *testing.T) {
		id := bson.NewObjectID()
		setup := SetupTest(t)
		setup.MockService.On("Update", mock.Anything, id, mock.MatchedBy(func(req users.UpdateUserRequest) bool {
			return req.UserName == nil && req.Address == nil &&
				req.PhoneNumber != nil && *req.PhoneNumber == "555"
		})).Return(&users.User{ID: id, PhoneNumber: "555", UserName: "John Doe"}, nil)

		resp, err := setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodPut, "/updateUser/"+id.Hex(),
			map[string]string{"phoneNumber": "555"}, validToken(t, id.Hex())))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body UpdateResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "User updated successfully", body.Message)
		require.NotNil(t, body.User)
		assert.Equal(t, "555", body.User.PhoneNumber)
		assert.Equal(t, "John Doe", body.User.UserName)
		setup.MockService.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		id := bson.NewObjectID()
		setup := SetupTest(t)
		setup.MockService.On("Update", mock.Anything, id, mock.Anything).Return(nil, users.ErrUserNotFound)

		resp, err := setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodPut, "/updateUser/"+id.Hex(),
			map[string]string{"phoneNumber": "555"}, validToken(t, id.Hex())))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		id := bson.NewObjectID()
		setup := SetupTest(t)
		setup.MockService.On("Delete", mock.Anything, id).Return(nil)

		resp, err := setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodDelete, "/deleteUser/"+id.Hex(), nil, validToken(t, id.Hex())))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body MessageResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "User deleted successfully", body.Message)
	})

	t.Run("second delete of the same id is 404", func(t *testing.T) {
		id := bson.NewObjectID()
		setup := SetupTest(t)
		setup.MockService.On("Delete", mock.Anything, id).Return(nil).Once()
		setup.MockService.On("Delete", mock.Anything, id).Return(users.ErrUserNotFound).Once()

		token := validToken(t, id.Hex())

		resp, err := setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodDelete, "/deleteUser/"+id.Hex(), nil, token))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = setup.App.Test(testutil.CreateAuthenticatedRequest(http.MethodDelete, "/deleteUser/"+id.Hex(), nil, token))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		setup.MockService.AssertExpectations(t)
	})
}
