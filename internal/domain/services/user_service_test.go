package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
	"github.com/levanhoang792/manage-building-sub000/internal/test/testdb"
)

func TestUserService_LastAdminProtected(t *testing.T) {
	db := testdb.New(t)
	svc := NewUserService(db, &config.Config{})

	admin, err := svc.CreateUser(CreateUserInput{Username: "root", Password: "secret1", Role: models.RoleAdmin}, Actor{})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", admin.Password)
	assert.True(t, svc.CheckPassword("secret1", admin.Password))

	viewer, err := svc.CreateUser(CreateUserInput{Username: "guard", Password: "secret2"}, Actor{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, viewer.Role)

	_, err = svc.CreateUser(CreateUserInput{Username: "guard", Password: "secret3"}, Actor{})
	assert.ErrorIs(t, err, code.ErrDuplicate)

	err = svc.DeleteUser(admin.ID, Actor{UserID: uintPtr(admin.ID)})
	assert.ErrorIs(t, err, code.ErrConflict)

	demoted := models.RoleOperator
	_, err = svc.UpdateUser(admin.ID, UpdateUserInput{Role: &demoted}, Actor{})
	assert.ErrorIs(t, err, code.ErrConflict)

	promoted := models.RoleAdmin
	_, err = svc.UpdateUser(viewer.ID, UpdateUserInput{Role: &promoted}, Actor{})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteUser(admin.ID, Actor{UserID: uintPtr(viewer.ID)}))

	users, err := svc.GetUsers(UserFilter{Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), users.Total)
}

func TestJWTService_LoginAndValidate(t *testing.T) {
	db := testdb.New(t)
	cfg := &config.Config{JWTSecretKey: "k"}
	users := NewUserService(db, cfg)
	jwtSvc := NewJWTService(cfg, db)

	user, err := users.CreateUser(CreateUserInput{Username: "op", Password: "password", Role: models.RoleOperator}, Actor{})
	require.NoError(t, err)

	_, err = jwtSvc.Login("op", "wrong")
	appErr, ok := code.As(err)
	require.True(t, ok)
	assert.Equal(t, code.InvalidCredentials, appErr.Code)

	_, err = jwtSvc.Login("nobody", "password")
	appErr, ok = code.As(err)
	require.True(t, ok)
	assert.Equal(t, code.InvalidCredentials, appErr.Code)

	result, err := jwtSvc.Login("op", "password")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), result.ExpiresAt, time.Minute)

	claims, err := jwtSvc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleOperator, claims.Role)

	_, err = NewJWTService(&config.Config{JWTSecretKey: "other"}, db).ValidateToken(result.Token)
	appErr, ok = code.As(err)
	require.True(t, ok)
	assert.Equal(t, code.TokenInvalid, appErr.Code)

	past := time.Now().Add(-time.Hour)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past),
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Hour)),
		},
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = jwtSvc.ValidateToken(expired)
	appErr, ok = code.As(err)
	require.True(t, ok)
	assert.Equal(t, code.TokenExpired, appErr.Code)

	inactive := models.UserStatusInactive
	_, err = users.UpdateUser(user.ID, UpdateUserInput{Status: &inactive}, Actor{})
	require.NoError(t, err)
	_, err = jwtSvc.Login("op", "password")
	appErr, ok = code.As(err)
	require.True(t, ok)
	assert.Equal(t, code.AccountDisabled, appErr.Code)
}
