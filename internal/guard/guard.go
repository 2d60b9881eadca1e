// Package guard redirects browsers without a session cookie away from the admin screens.
//
// It only checks that the cookie is there. Whether the session behind it is still alive is for the
// Auth Service to decide, so treat this as a convenience redirect and not as access control.
package guard

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/lachlan2k/imob-admin/internal/utils"
)

type Decision int

const (
	Pass Decision = iota
	Redirect
)

func (d Decision) String() string {
	if d == Redirect {
		return "redirect"
	}
	return "pass"
}

type Guard struct {
	prefixes   []string
	cookieName string
	loginPath  string
}

func New(prefixes []string, cookieName string, loginPath string) *Guard {
	cp := make([]string, len(prefixes))
	copy(cp, prefixes)

	return &Guard{
		prefixes:   cp,
		cookieName: cookieName,
		loginPath:  loginPath,
	}
}

func (g *Guard) LoginPath() string {
	return g.loginPath
}

func (g *Guard) Protected(urlPath string) bool {
	return utils.SliceHasPrefixMatch(g.prefixes, utils.CleanPath(urlPath))
}

func (g *Guard) Decide(r *http.Request) Decision {
	if r == nil || r.URL == nil {
		return Redirect
	}

	urlPath, err := url.PathUnescape(r.URL.EscapedPath())
	if err != nil {
		return Redirect
	}

	if !g.Protected(urlPath) {
		return Pass
	}

	cookie, err := r.Cookie(g.cookieName)
	if err != nil || cookie.Value == "" {
		return Redirect
	}

	return Pass
}

// Middleware is meant for echo's Pre chain, so it runs before routing and before any handler
func (g *Guard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if g.Decide(c.Request()) == Redirect {
				return c.Redirect(http.StatusFound, g.loginPath)
			}
			return next(c)
		}
	}
}
