package api

import (
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"
)

// Options tunes the echo instance built by NewServer.
type Options struct {
	RateLimit  float64 // requests/second per client IP, 0 disables
	LogLevel   log.Lvl
	AdminToken string // empty leaves the admin routes unregistered
}

// NewServer builds the echo instance with middleware and routes.
func NewServer(h *Handler, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = goccySerializer{}
	e.Logger.SetLevel(opts.LogLevel)

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	if opts.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(opts.RateLimit))))
	}

	h.RegisterRoutes(e)
	if opts.AdminToken != "" {
		h.RegisterAdminRoutes(e, opts.AdminToken)
	}
	return e
}

// goccySerializer implements echo.JSONSerializer with goccy/go-json.
type goccySerializer struct{}

func (goccySerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (goccySerializer) Deserialize(c echo.Context, i interface{}) error {
	err := json.NewDecoder(c.Request().Body).Decode(i)
	if ute, ok := err.(*json.UnmarshalTypeError); ok {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unmarshal type error: expected=%v, got=%v, field=%v, offset=%v", ute.Type, ute.Value, ute.Field, ute.Offset)).SetInternal(err)
	} else if se, ok := err.(*json.SyntaxError); ok {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Syntax error: offset=%v, error=%v", se.Offset, se.Error())).SetInternal(err)
	}
	return err
}
