package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/configs"
	"yogacenter_backend/internals/constants"
	centerService "yogacenter_backend/internals/features/centers/centers/service"
	authHelper "yogacenter_backend/internals/features/users/auth/helper"
	authRepo "yogacenter_backend/internals/features/users/auth/repository"
	userModel "yogacenter_backend/internals/features/users/users/model"
	userService "yogacenter_backend/internals/features/users/users/service"
	"yogacenter_backend/internals/helpers/apperr"
	"yogacenter_backend/internals/helpers/dbx"
)

/* ==========================
   Const & Types
========================== */

const accessTTLDefaultHours = 24

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("account is deactivated")
	ErrInvalidGoogleToken = errors.New("invalid google id token")
	ErrGoogleDisabled     = errors.New("google login is not configured")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is not set")
)

// Session: hasil login/register.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *userModel.UserModel
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    *string
	Password string
}

// GoogleIdentity: klaim yang dipakai dari Google ID token.
type GoogleIdentity struct {
	Sub   string
	Email string
	Name  string
}

// verifyGoogleToken diganti di test.
var verifyGoogleToken = func(idToken, clientID string) (*GoogleIdentity, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{clientID}); err != nil {
		return nil, err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, err
	}
	return &GoogleIdentity{Sub: claimSet.Sub, Email: claimSet.Email, Name: claimSet.Name}, nil
}

func accessTTL() time.Duration {
	h := configs.GetEnvInt("ACCESS_TOKEN_TTL_HOURS", accessTTLDefaultHours)
	if h <= 0 {
		h = accessTTLDefaultHours
	}
	return time.Duration(h) * time.Hour
}

/* ==========================
   LOGIN
========================== */

// Authenticate: cek email + password. Pesan error sama untuk email/password salah.
func Authenticate(ctx context.Context, db *gorm.DB, email, password string) (*userModel.UserModel, error) {
	email = authHelper.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := authRepo.FindUserByEmail(db.WithContext(ctx), email)
	if err != nil {
		if dbx.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := authHelper.CheckPasswordHash(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

func Login(ctx context.Context, db *gorm.DB, email, password string, now time.Time) (*Session, error) {
	user, err := Authenticate(ctx, db, email, password)
	if err != nil {
		return nil, err
	}
	return newSession(user, now)
}

/* ==========================
   REGISTER (self-service, selalu STUDENT)
========================== */

func RegisterStudent(ctx context.Context, db *gorm.DB, in RegisterInput, now time.Time) (*Session, error) {
	create := userService.CreateUserInput{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: in.Password,
		Role:     constants.RoleStudent,
	}
	// student baru otomatis terdaftar di center utama (kalau ada)
	center, err := centerService.FirstCenter(ctx, db)
	if err != nil {
		return nil, err
	}
	if center != nil {
		create.CenterIDs = []uuid.UUID{center.CenterID}
	}

	user, err := userService.CreateUser(ctx, db, create)
	if err != nil {
		return nil, err
	}
	log.Printf("[Auth] registered student=%s", user.ID)
	return newSession(user, now)
}

/* ==========================
   LOGIN GOOGLE
   google_id -> email (link) -> user baru (STUDENT)
========================== */

func LoginGoogle(ctx context.Context, db *gorm.DB, idToken string, now time.Time) (*Session, error) {
	if strings.TrimSpace(configs.GoogleClientID) == "" {
		return nil, ErrGoogleDisabled
	}
	ident, err := verifyGoogleToken(strings.TrimSpace(idToken), configs.GoogleClientID)
	if err != nil || ident == nil || ident.Sub == "" {
		return nil, ErrInvalidGoogleToken
	}

	tx := db.WithContext(ctx)
	user, err := authRepo.FindUserByGoogleID(tx, ident.Sub)
	switch {
	case err == nil:
	case dbx.IsNotFound(err):
		user, err = linkOrCreateGoogleUser(ctx, db, ident)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("find google user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return newSession(user, now)
}

func linkOrCreateGoogleUser(ctx context.Context, db *gorm.DB, ident *GoogleIdentity) (*userModel.UserModel, error) {
	email := authHelper.NormalizeEmail(ident.Email)
	user, err := authRepo.FindUserByEmail(db.WithContext(ctx), email)
	if err == nil {
		if err := authRepo.LinkGoogleID(db.WithContext(ctx), user.ID, ident.Sub); err != nil {
			return nil, fmt.Errorf("link google id: %w", err)
		}
		user.GoogleID = &ident.Sub
		log.Printf("[Auth] google account linked user=%s", user.ID)
		return user, nil
	}
	if !dbx.IsNotFound(err) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	name := strings.TrimSpace(ident.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	sub := ident.Sub
	create := userService.CreateUserInput{
		Name:  name,
		Email: email,
		// password acak, akun google login lewat google saja
		Password: "g" + uuid.NewString() + "1",
		Role:     constants.RoleStudent,
		GoogleID: &sub,
	}
	center, err := centerService.FirstCenter(ctx, db)
	if err != nil {
		return nil, err
	}
	if center != nil {
		create.CenterIDs = []uuid.UUID{center.CenterID}
	}
	return userService.CreateUser(ctx, db, create)
}

/* ==========================
   TOKEN
========================== */

func newSession(user *userModel.UserModel, now time.Time) (*Session, error) {
	token, exp, err := IssueAccessToken(user, now)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

// IssueAccessToken: HS256, klaim id/role/user_name. jti membuat tiap token unik untuk blacklist.
func IssueAccessToken(user *userModel.UserModel, now time.Time) (string, time.Time, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", time.Time{}, ErrMissingJWTSecret
	}
	exp := now.Add(accessTTL())
	claims := jwt.MapClaims{
		"typ":       "access",
		"sub":       user.ID.String(),
		"id":        user.ID.String(),
		"role":      string(user.Role),
		"user_name": user.UserName,
		"jti":       uuid.NewString(),
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

/* ==========================
   LOGOUT
========================== */

func Logout(ctx context.Context, db *gorm.DB, accessToken string, now time.Time) error {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil
	}
	if err := authRepo.BlacklistToken(db.WithContext(ctx), accessToken, resolveBlacklistExpiry(accessToken, now)); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// resolveBlacklistExpiry: exp token + 1 menit; token tak terbaca -> now + TTL default.
func resolveBlacklistExpiry(accessToken string, now time.Time) time.Time {
	fallback := now.Add(accessTTL())
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return fallback
	}
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}); err != nil {
		return fallback
	}
	if exp, ok := claims["exp"].(float64); ok {
		return time.Unix(int64(exp), 0).UTC().Add(time.Minute)
	}
	return fallback
}

/* ==========================
   PASSWORD
========================== */

func ChangePassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, current, next string) error {
	user, err := authRepo.FindUserByID(db.WithContext(ctx), userID)
	if err != nil {
		if dbx.IsNotFound(err) {
			return apperr.NotFound("user")
		}
		return fmt.Errorf("find user: %w", err)
	}
	if err := authHelper.CheckPasswordHash(user.Password, current); err != nil {
		return apperr.Validation("current_password", "current password is incorrect")
	}
	if current == next {
		return apperr.Validation("new_password", "new password must differ from the current one")
	}
	if err := authHelper.ValidatePassword(next); err != nil {
		return apperr.Validation("new_password", err.Error())
	}
	hash, err := authHelper.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := authRepo.UpdateUserPassword(db.WithContext(ctx), userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	log.Printf("[Auth] password changed user=%s", userID)
	return nil
}

/* ==========================
   MAINTENANCE
========================== */

func CleanupExpiredBlacklist(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	n, err := authRepo.CleanupExpiredBlacklist(db.WithContext(ctx), now)
	if err != nil {
		return 0, fmt.Errorf("cleanup blacklist: %w", err)
	}
	return n, nil
}
