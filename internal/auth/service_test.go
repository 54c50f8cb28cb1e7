package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomly/internal/shared/config"
	"roomly/internal/users"
)

type fakeUserRepo struct {
	byEmail map[string]*users.User
	byID    map[string]*users.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*users.User),
		byID:    make(map[string]*users.User),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *users.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	f.byEmail[user.Email] = user
	f.byID[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*users.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*users.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) UpdateUserPassword(_ context.Context, userID string, hashedPassword string) error {
	user, ok := f.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (f *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 7 * 24 * time.Hour,
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	service := NewService(newFakeUserRepo(), testConfig())
	ctx := context.Background()

	resp, err := service.Register(ctx, &RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "USER", resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	login, err := service.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service := NewService(newFakeUserRepo(), testConfig())
	ctx := context.Background()

	req := &RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret123"}
	_, err := service.Register(ctx, req)
	require.NoError(t, err)

	_, err = service.Register(ctx, req)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegister_InvalidRoleFallsBackToUser(t *testing.T) {
	service := NewService(newFakeUserRepo(), testConfig())

	resp, err := service.Register(context.Background(), &RegisterRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Password:  "secret123",
		Role:      "superuser",
	})
	require.NoError(t, err)
	assert.Equal(t, "USER", resp.User.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	service := NewService(newFakeUserRepo(), testConfig())
	ctx := context.Background()

	_, err := service.Register(ctx, &RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = service.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	service := NewService(newFakeUserRepo(), testConfig())
	ctx := context.Background()

	resp, err := service.Register(ctx, &RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret123", Role: "admin",
	})
	require.NoError(t, err)

	claims, err := service.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, "roomly", claims.Issuer)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	service := NewService(newFakeUserRepo(), testConfig())
	ctx := context.Background()

	resp, err := service.Register(ctx, &RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = service.RefreshToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	pair, err := service.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
}
