package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yogacenter_backend/internals/configs"
	"yogacenter_backend/internals/constants"
	"yogacenter_backend/internals/databases/dbtest"
	authRepo "yogacenter_backend/internals/features/users/auth/repository"
	userService "yogacenter_backend/internals/features/users/users/service"
	"yogacenter_backend/internals/helpers/apperr"
)

func withSecrets(t *testing.T) {
	t.Helper()
	prevSecret, prevClient := configs.JWTSecret, configs.GoogleClientID
	configs.JWTSecret = "test-secret"
	configs.GoogleClientID = "client-id"
	t.Cleanup(func() {
		configs.JWTSecret, configs.GoogleClientID = prevSecret, prevClient
	})
}

func register(t *testing.T, db *gorm.DB, email string) *Session {
	t.Helper()
	s, err := RegisterStudent(context.Background(), db, RegisterInput{
		Name:     "Lucia",
		Email:    email,
		Password: "yoga2025",
	}, dbtest.BaseTime)
	require.NoError(t, err)
	return s
}

func TestRegisterStudentIssuesToken(t *testing.T) {
	withSecrets(t)
	db := dbtest.Open(t)
	center := dbtest.SeedCenter(t, db)

	s := register(t, db, "Lucia@Yoga.test")
	assert.Equal(t, constants.RoleStudent, s.User.Role)
	assert.Equal(t, "lucia@yoga.test", s.User.Email)
	assert.Equal(t, dbtest.BaseTime.Add(24*time.Hour), s.ExpiresAt)

	claims := jwt.MapClaims{}
	_, err := (&jwt.Parser{SkipClaimsValidation: true}).ParseWithClaims(s.AccessToken, claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, s.User.ID.String(), claims["id"])
	assert.Equal(t, "STUDENT", claims["role"])

	var links int64
	require.NoError(t, db.Table("user_centers").
		Where("user_center_user_id = ? AND user_center_center_id = ?", s.User.ID, center.CenterID).
		Count(&links).Error)
	assert.EqualValues(t, 1, links)
}

func TestLogin(t *testing.T) {
	withSecrets(t)
	db := dbtest.Open(t)
	ctx := context.Background()
	reg := register(t, db, "lucia@yoga.test")

	s, err := Login(ctx, db, " LUCIA@yoga.test ", "yoga2025", dbtest.BaseTime)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, s.User.ID)
	assert.NotEqual(t, reg.AccessToken, s.AccessToken)

	_, err = Login(ctx, db, "lucia@yoga.test", "wrong123", dbtest.BaseTime)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = Login(ctx, db, "nobody@yoga.test", "yoga2025", dbtest.BaseTime)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = userService.SetActive(ctx, db, reg.User.ID, false)
	require.NoError(t, err)
	_, err = Login(ctx, db, "lucia@yoga.test", "yoga2025", dbtest.BaseTime)
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestIssueAccessTokenRequiresSecret(t *testing.T) {
	withSecrets(t)
	configs.JWTSecret = ""
	u := dbtest.SeedUser(t, dbtest.Open(t), constants.RoleTeacher)
	_, _, err := IssueAccessToken(&u, dbtest.BaseTime)
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLogoutBlacklistsUntilExpiry(t *testing.T) {
	withSecrets(t)
	db := dbtest.Open(t)
	ctx := context.Background()
	s := register(t, db, "lucia@yoga.test")

	require.NoError(t, Logout(ctx, db, s.AccessToken, dbtest.BaseTime))
	// idempotent
	require.NoError(t, Logout(ctx, db, s.AccessToken, dbtest.BaseTime))

	ok, err := authRepo.IsTokenBlacklisted(db, s.AccessToken)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := CleanupExpiredBlacklist(ctx, db, s.ExpiresAt)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = CleanupExpiredBlacklist(ctx, db, s.ExpiresAt.Add(2*time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestChangePassword(t *testing.T) {
	withSecrets(t)
	db := dbtest.Open(t)
	ctx := context.Background()
	s := register(t, db, "lucia@yoga.test")

	err := ChangePassword(ctx, db, s.User.ID, "nope1234", "fresh2025")
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "current_password"})
	err = ChangePassword(ctx, db, s.User.ID, "yoga2025", "short")
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "new_password"})

	require.NoError(t, ChangePassword(ctx, db, s.User.ID, "yoga2025", "fresh2025"))
	_, err = Login(ctx, db, "lucia@yoga.test", "fresh2025", dbtest.BaseTime)
	require.NoError(t, err)
}

func TestLoginGoogle(t *testing.T) {
	withSecrets(t)
	db := dbtest.Open(t)
	ctx := context.Background()

	prev := verifyGoogleToken
	t.Cleanup(func() { verifyGoogleToken = prev })
	verifyGoogleToken = func(idToken, clientID string) (*GoogleIdentity, error) {
		switch idToken {
		case "existing":
			return &GoogleIdentity{Sub: "g-1", Email: "Lucia@yoga.test", Name: "Lucia"}, nil
		case "fresh":
			return &GoogleIdentity{Sub: "g-2", Email: "new@yoga.test"}, nil
		}
		return nil, errors.New("bad token")
	}

	// email sudah terdaftar -> google_id di-link ke akun itu
	reg := register(t, db, "lucia@yoga.test")
	s, err := LoginGoogle(ctx, db, "existing", dbtest.BaseTime)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, s.User.ID)
	linked, err := authRepo.FindUserByGoogleID(db, "g-1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, linked.ID)

	// belum ada -> student baru
	s, err = LoginGoogle(ctx, db, "fresh", dbtest.BaseTime)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleStudent, s.User.Role)
	assert.Equal(t, "new", s.User.UserName)

	again, err := LoginGoogle(ctx, db, "fresh", dbtest.BaseTime)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, again.User.ID)

	_, err = LoginGoogle(ctx, db, "forged", dbtest.BaseTime)
	assert.ErrorIs(t, err, ErrInvalidGoogleToken)

	configs.GoogleClientID = ""
	_, err = LoginGoogle(ctx, db, "existing", dbtest.BaseTime)
	assert.ErrorIs(t, err, ErrGoogleDisabled)
}
