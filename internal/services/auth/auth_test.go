package authservice_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zanzhit/camera_vault/internal/domain/constants"
	"github.com/zanzhit/camera_vault/internal/domain/errs"
	"github.com/zanzhit/camera_vault/internal/domain/models"
	authservice "github.com/zanzhit/camera_vault/internal/services/auth"
)

const testSecret = "test-secret"

type fakeUsers struct {
	byEmail map[string]models.User
	saved   []models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: make(map[string]models.User)}
}

func (f *fakeUsers) SaveUser(email, userType string, passHash []byte) (string, error) {
	if _, ok := f.byEmail[email]; ok {
		return "", errs.ErrUserExists
	}

	user := models.User{
		Id:       len(f.saved) + 1,
		Email:    email,
		UserType: userType,
		PassHash: passHash,
	}

	f.byEmail[email] = user
	f.saved = append(f.saved, user)

	return email, nil
}

func (f *fakeUsers) User(email string) (models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return models.User{}, errs.ErrInvalidCredentials
	}

	return user, nil
}

func newService(users *fakeUsers) *authservice.AuthService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return authservice.New(log, users, users, time.Hour, testSecret)
}

func TestRegisterNewUser_HashesPassword(t *testing.T) {
	users := newFakeUsers()
	svc := newService(users)

	_, err := svc.RegisterNewUser("op@example.com", "hunter2", constants.User)
	require.NoError(t, err)

	require.Len(t, users.saved, 1)
	saved := users.saved[0]

	assert.NotEqual(t, []byte("hunter2"), saved.PassHash, "passwords are never stored in the clear")
	assert.NoError(t, bcrypt.CompareHashAndPassword(saved.PassHash, []byte("hunter2")))
}

func TestRegisterNewUser_RejectsUnknownUserType(t *testing.T) {
	users := newFakeUsers()
	svc := newService(users)

	_, err := svc.RegisterNewUser("op@example.com", "hunter2", "superuser")
	require.ErrorIs(t, err, errs.ErrUserType)

	assert.Empty(t, users.saved)
}

func TestLogin_IssuesTokenWithUserType(t *testing.T) {
	users := newFakeUsers()
	svc := newService(users)

	_, err := svc.RegisterNewUser("admin@example.com", "hunter2", constants.Admin)
	require.NoError(t, err)

	tokenString, err := svc.Login("admin@example.com", "hunter2")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin@example.com", claims["email"])
	assert.Equal(t, constants.Admin, claims["user_type"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	users := newFakeUsers()
	svc := newService(users)

	_, err := svc.RegisterNewUser("op@example.com", "hunter2", constants.User)
	require.NoError(t, err)

	_, err = svc.Login("op@example.com", "wrong")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}
