package errors

import (
	"fmt"
	"net/http"

	"pricetracker/internal/errors"
)

// Kind classifies an application error. Every AppError carries exactly one kind
// and the delivery layer derives the response status from it.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindUpstream:
		return "upstream"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// HTTPStatus maps the kind onto the status code returned to clients.
// Conflicts are reported as 400 and upstream failures as 500.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindUpstream:
		return http.StatusInternalServerError
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// FieldError names one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	Kind() Kind
	HTTPCode() int       // HTTP status code
	ErrorCode() string   // Business error code
	Message() string     // User-facing message
	Details() string     // Internal detail, never rendered
	Fields() []FieldError
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	kind      Kind
	errorCode string
	message   string
	details   string
	fields    []FieldError
}

// NewBaseError creates a new base error
func NewBaseError(kind Kind, errorCode, message string) *BaseError {
	return &BaseError{
		kind:      kind,
		errorCode: errorCode,
		message:   message,
	}
}

func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

func (e *BaseError) Kind() Kind {
	return e.kind
}

func (e *BaseError) HTTPCode() int {
	return e.kind.HTTPStatus()
}

func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

func (e *BaseError) Message() string {
	return e.message
}

func (e *BaseError) Details() string {
	return e.details
}

func (e *BaseError) Fields() []FieldError {
	return e.fields
}

// Is matches errors of the same kind and business code so copies made by the
// With* helpers still compare equal to the predefined values.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.kind == e.kind && t.errorCode == e.errorCode
}

func (e *BaseError) clone() *BaseError {
	c := *e
	c.fields = append([]FieldError(nil), e.fields...)

	return &c
}

// WithDetails returns a copy carrying internal detail for logs.
func (e *BaseError) WithDetails(details string) *BaseError {
	c := e.clone()
	c.details = details

	return c
}

// WithFields returns a copy carrying the given field errors.
func (e *BaseError) WithFields(fields ...FieldError) *BaseError {
	c := e.clone()
	c.fields = append(c.fields, fields...)

	return c
}

// WithMessage returns a copy with a different user-facing message.
func (e *BaseError) WithMessage(message string) *BaseError {
	c := e.clone()
	c.message = message

	return c
}

// NewValidationError reports every offending field at once.
func NewValidationError(fields ...FieldError) *BaseError {
	return ErrValidationFailed.WithFields(fields...)
}

// Predefined error types
var (
	ErrValidationFailed = NewBaseError(
		KindValidation,
		"VALIDATION_FAILED",
		"Validation error",
	)

	ErrEmailTaken = NewBaseError(
		KindConflict,
		"EMAIL_TAKEN",
		"Email already registered",
	).WithFields(FieldError{Field: "email", Message: "Email already registered"})

	ErrUsernameTaken = NewBaseError(
		KindConflict,
		"USERNAME_TAKEN",
		"Username already taken",
	).WithFields(FieldError{Field: "username", Message: "Username already taken"})

	ErrGoogleAccountTaken = NewBaseError(
		KindConflict,
		"GOOGLE_ACCOUNT_TAKEN",
		"Google account already linked to another user",
	).WithFields(FieldError{Field: "googleId", Message: "Google account already linked to another user"})

	ErrInvalidCredentials = NewBaseError(
		KindAuthentication,
		"INVALID_CREDENTIALS",
		"Invalid credentials",
	)

	ErrNoToken = NewBaseError(
		KindAuthentication,
		"NO_TOKEN",
		"Unauthorized request - No token provided",
	)

	ErrInvalidAccessToken = NewBaseError(
		KindAuthentication,
		"INVALID_ACCESS_TOKEN",
		"Invalid access token",
	)

	// ErrSessionUserGone is a valid token whose user no longer exists. Clients
	// see the same message as for any other invalid token.
	ErrSessionUserGone = NewBaseError(
		KindAuthentication,
		"SESSION_USER_NOT_FOUND",
		"Invalid access token",
	)

	ErrIDTokenRequired = NewBaseError(
		KindValidation,
		"ID_TOKEN_REQUIRED",
		"ID token is required",
	).WithFields(FieldError{Field: "idToken", Message: "ID token is required"})

	ErrOAuthCodeMissing = NewBaseError(
		KindValidation,
		"OAUTH_CODE_MISSING",
		"Authorization code missing",
	)

	ErrOAuthStateInvalid = NewBaseError(
		KindAuthentication,
		"OAUTH_STATE_INVALID",
		"Invalid or expired OAuth state",
	)

	ErrOAuthFailed = NewBaseError(
		KindUpstream,
		"GOOGLE_AUTH_FAILED",
		"Google authentication failed",
	)

	ErrOAuthUnavailable = NewBaseError(
		KindUpstream,
		"GOOGLE_AUTH_UNAVAILABLE",
		"Google authentication is temporarily unavailable",
	)

	ErrOAuthNotConfigured = NewBaseError(
		KindInternal,
		"GOOGLE_OAUTH_NOT_CONFIGURED",
		"Google sign-in is not configured",
	)

	ErrInternalError = NewBaseError(
		KindInternal,
		"INTERNAL_ERROR",
		"Internal server error",
	)
)

// InternalError keeps the underlying cause of an unexpected failure while
// presenting the generic internal message to clients.
type InternalError struct {
	err     error
	details string
}

// NewInternalError wraps err as an internal failure.
func NewInternalError(err error, details string) AppError {
	return &InternalError{
		err:     err,
		details: details,
	}
}

func (e *InternalError) Error() string {
	if e.err == nil {
		return e.details
	}

	return errors.Wrap(e.err, e.details).Error()
}

func (e *InternalError) Unwrap() error {
	return e.err
}

func (e *InternalError) Kind() Kind {
	return KindInternal
}

func (e *InternalError) HTTPCode() int {
	return KindInternal.HTTPStatus()
}

func (e *InternalError) ErrorCode() string {
	return ErrInternalError.ErrorCode()
}

func (e *InternalError) Message() string {
	return ErrInternalError.Message()
}

func (e *InternalError) Details() string {
	return e.details
}

func (e *InternalError) Fields() []FieldError {
	return nil
}

// AsAppError extracts the AppError from err's chain.
func AsAppError(err error) (AppError, bool) {
	return errors.AsType[AppError](err)
}
