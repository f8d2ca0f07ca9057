package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"pricetracker/internal/delivery/api/response"
	"pricetracker/internal/delivery/api/sessioncookie"
	deliverycontext "pricetracker/internal/delivery/context"
	domainerrors "pricetracker/internal/domain/errors"
	"pricetracker/internal/usecase"
)

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3,max=30"`
	Password        string `json:"password" validate:"required,min=8,bcryptlen"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	Name            string `json:"name" validate:"omitempty,max=100"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required"`
	Password        string `json:"password" validate:"required"`
	RememberMe      bool   `json:"rememberMe"`
}

// AuthHandler serves local account endpoints.
type AuthHandler struct {
	auth    usecase.AuthUsecase
	cookies *sessioncookie.Writer
}

type AuthHandlerParams struct {
	fx.In

	Auth    usecase.AuthUsecase
	Cookies *sessioncookie.Writer
}

func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		auth:    params.Auth,
		cookies: params.Cookies,
	}
}

// bindAndValidate decodes the JSON body and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithMessage("Invalid request body").WithDetails(err.Error())
	}

	return c.Validate(req)
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.auth.Signup(c.Request().Context(), &usecase.SignupInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}

	h.cookies.Set(c, out.Tokens, false)

	return response.Created(c, "Account created successfully", &SessionData{
		User:        newUserView(out.User),
		AccessToken: out.Tokens.AccessToken,
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.auth.Login(c.Request().Context(), &usecase.LoginInput{
		EmailOrUsername: req.EmailOrUsername,
		Password:        req.Password,
		RememberMe:      req.RememberMe,
	})
	if err != nil {
		return err
	}

	h.cookies.Set(c, out.Tokens, req.RememberMe)

	return response.OK(c, "Login successful", &SessionData{
		User:        newUserView(out.User),
		AccessToken: out.Tokens.AccessToken,
	})
}

// Logout handles POST /logout. Tokens stay valid until they expire; only
// the cookies are cleared.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookies.Clear(c)

	return response.OK(c, "Logout successful", nil)
}

// Me handles GET /me.
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := deliverycontext.GetUser(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	return response.OK(c, "", map[string]any{"user": newUserView(user)})
}
