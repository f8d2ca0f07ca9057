package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"pricetracker/config"
	"pricetracker/internal/delivery/api/response"
	"pricetracker/internal/delivery/api/sessioncookie"
	deliverycontext "pricetracker/internal/delivery/context"
	domainerrors "pricetracker/internal/domain/errors"
	"pricetracker/internal/usecase"
)

const frontendCallbackPath = "/auth/callback"

// GoogleTokenRequest is the body of POST /google/token.
type GoogleTokenRequest struct {
	IDToken string `json:"idToken"`
}

// GoogleHandler serves the Google sign-in endpoints.
type GoogleHandler struct {
	federated   usecase.FederatedUsecase
	cookies     *sessioncookie.Writer
	frontendURL string
	logger      *slog.Logger
}

type GoogleHandlerParams struct {
	fx.In

	Federated usecase.FederatedUsecase
	Cookies   *sessioncookie.Writer
	Config    *config.Config
	Logger    *slog.Logger
}

func NewGoogleHandler(params GoogleHandlerParams) *GoogleHandler {
	return &GoogleHandler{
		federated:   params.Federated,
		cookies:     params.Cookies,
		frontendURL: params.Config.Frontend.BaseURL,
		logger:      params.Logger,
	}
}

// AuthURL handles GET /google.
func (h *GoogleHandler) AuthURL(c echo.Context) error {
	authURL, err := h.federated.GoogleAuthURL(c.Request().Context())
	if err != nil {
		return err
	}

	return response.OK(c, "", map[string]string{"authUrl": authURL})
}

// Callback handles GET /google/callback. Every outcome is a redirect to the
// frontend callback page.
func (h *GoogleHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()

	out, err := h.federated.GoogleCallback(ctx, c.QueryParam("code"), c.QueryParam("state"))
	if err != nil {
		message := domainerrors.ErrOAuthFailed.Message()
		if appErr, ok := domainerrors.AsAppError(err); ok {
			message = appErr.Message()
		}
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("Google callback failed", slog.Any("error", err))

		return c.Redirect(http.StatusFound, h.callbackURL(url.Values{
			"success": {"false"},
			"error":   {message},
		}))
	}

	h.cookies.Set(c, out.Tokens, false)

	userJSON, err := json.Marshal(newUserView(out.User))
	if err != nil {
		return domainerrors.NewInternalError(err, "failed to encode user")
	}

	return c.Redirect(http.StatusFound, h.callbackURL(url.Values{
		"success": {"true"},
		"token":   {out.Tokens.AccessToken},
		"user":    {string(userJSON)},
	}))
}

// TokenLogin handles POST /google/token.
func (h *GoogleHandler) TokenLogin(c echo.Context) error {
	var req GoogleTokenRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrIDTokenRequired.WithDetails(err.Error())
	}

	out, err := h.federated.GoogleTokenLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}

	h.cookies.Set(c, out.Tokens, false)

	return response.OK(c, "Google authentication successful", &SessionData{
		User:        newUserView(out.User),
		AccessToken: out.Tokens.AccessToken,
	})
}

func (h *GoogleHandler) callbackURL(query url.Values) string {
	return h.frontendURL + frontendCallbackPath + "?" + query.Encode()
}
