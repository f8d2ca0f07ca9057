package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetracker/config"
	"pricetracker/internal/delivery/api/sessioncookie"
	"pricetracker/internal/delivery/api/validator"
	"pricetracker/internal/domain/entity"
	"pricetracker/internal/domain/service"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()

	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func newTestCookies() *sessioncookie.Writer {
	return sessioncookie.NewWriter(&config.Config{})
}

func newTestUser() *entity.User {
	return &entity.User{
		ID:        uuid.New(),
		Email:     "ada@example.com",
		Username:  "ada",
		Name:      "Ada",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testTokens() *service.TokenPair {
	return &service.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, cookie := range rec.Result().Cookies() {
		out[cookie.Name] = cookie
	}

	return out
}

func TestNewUserView_OmitsSecrets(t *testing.T) {
	user := newTestUser()
	hash := "hash"
	googleID := "sub"
	user.PasswordHash = &hash
	user.GoogleID = &googleID

	raw, err := json.Marshal(newUserView(user))
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "hash")
	assert.NotContains(t, string(raw), "sub")
	assert.Contains(t, string(raw), `"googleLinked":true`)
}
