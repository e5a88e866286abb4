package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

const (
	CsrfFormField  = "csrf"
	CsrfHeaderName = "X-Csrf-Token"
	csrfContextKey = "csrf"
)

type CsrfConfig struct {
	CookieName   string
	CookieSecure bool
	Expiration   time.Duration
	// Storage holds issued tokens. Nil keeps them in process memory.
	Storage fiber.Storage
}

// NewCsrfMiddleware issues a double-submit token on safe requests and checks it
// on unsafe ones. The token is read from the "csrf" form field first, then the
// X-Csrf-Token header.
func NewCsrfMiddleware(cfg CsrfConfig) fiber.Handler {
	if cfg.Expiration == 0 {
		cfg.Expiration = time.Hour
	}

	fromForm := csrf.CsrfFromForm(CsrfFormField)
	fromHeader := csrf.CsrfFromHeader(CsrfHeaderName)

	return csrf.New(csrf.Config{
		CookieName:     cfg.CookieName,
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     cfg.Expiration,
		ContextKey:     csrfContextKey,
		Storage:        cfg.Storage,
		Extractor: func(c *fiber.Ctx) (string, error) {
			if token, err := fromForm(c); err == nil {
				return token, nil
			}
			return fromHeader(c)
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, "Invalid CSRF token"))
		},
	})
}

// CsrfToken returns the token issued for this request, for embedding in views.
func CsrfToken(ctx *fiber.Ctx) string {
	token, _ := ctx.Locals(csrfContextKey).(string)
	return token
}
