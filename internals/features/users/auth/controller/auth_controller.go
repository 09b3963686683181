package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"yogacenter_backend/internals/configs"
	centerDTO "yogacenter_backend/internals/features/centers/centers/dto"
	centerService "yogacenter_backend/internals/features/centers/centers/service"
	"yogacenter_backend/internals/features/users/auth/service"
	userdto "yogacenter_backend/internals/features/users/users/dto"
	userService "yogacenter_backend/internals/features/users/users/service"
	helper "yogacenter_backend/internals/helpers"
	"yogacenter_backend/internals/helpers/dbtime"
)

type AuthController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Validator: validator.New()}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	UserName string  `json:"user_name" validate:"required,min=2,max=100"`
	Email    string  `json:"email"     validate:"required,email"`
	Phone    *string `json:"phone"     validate:"omitempty,max=20"`
	Password string  `json:"password"  validate:"required,min=6"`
}

type googleRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	s, err := service.Login(c.Context(), ac.DB, req.Email, req.Password, dbtime.NowUTC())
	if err != nil {
		return authError(c, err)
	}
	return respondSession(c, fiber.StatusOK, "Login successful", s)
}

// POST /api/auth/register  (selalu STUDENT)
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	s, err := service.RegisterStudent(c.Context(), ac.DB, service.RegisterInput{
		Name:     req.UserName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}, dbtime.NowUTC())
	if err != nil {
		return authError(c, err)
	}
	return respondSession(c, fiber.StatusCreated, "Registration successful", s)
}

// POST /api/auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req googleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	s, err := service.LoginGoogle(c.Context(), ac.DB, req.IDToken, dbtime.NowUTC())
	if err != nil {
		return authError(c, err)
	}
	return respondSession(c, fiber.StatusOK, "Login successful", s)
}

// POST /api/auth/logout (JWT)
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := service.Logout(c.Context(), ac.DB, helper.GetRawAccessToken(c), dbtime.NowUTC()); err != nil {
		return helper.FromServiceError(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	return helper.JsonOK(c, "Logout successful", nil)
}

// GET /api/auth/me (JWT)
func (ac *AuthController) Me(c *fiber.Ctx) error {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	u, err := userService.GetUser(c.Context(), ac.DB, id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	centers, err := centerService.UserCenters(c.Context(), ac.DB, id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Me fetched", fiber.Map{
		"user":    userdto.FromModel(u),
		"centers": centerDTO.FromModels(centers),
	})
}

// POST /api/auth/change-password (JWT)
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := service.ChangePassword(c.Context(), ac.DB, id, req.CurrentPassword, req.NewPassword); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Password changed", nil)
}

func respondSession(c *fiber.Ctx, status int, msg string, s *service.Session) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    s.AccessToken,
		HTTPOnly: true,
		Secure:   !configs.GetEnvBool("COOKIE_INSECURE", false),
		SameSite: "None",
		Path:     "/",
		Expires:  s.ExpiresAt,
	})
	data := fiber.Map{
		"access_token": s.AccessToken,
		"token_type":   "Bearer",
		"expires_at":   s.ExpiresAt,
		"user":         userdto.FromModel(s.User),
	}
	if status == fiber.StatusCreated {
		return helper.JsonCreated(c, msg, data)
	}
	return helper.JsonOK(c, msg, data)
}

func authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email or password is incorrect")
	case errors.Is(err, service.ErrInvalidGoogleToken):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google ID Token")
	case errors.Is(err, service.ErrUserInactive):
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated. Contact the front desk.")
	case errors.Is(err, service.ErrGoogleDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Google login is not available")
	}
	return helper.FromServiceError(c, err)
}
