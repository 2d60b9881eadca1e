package webserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lachlan2k/imob-admin/internal/accesscontrol"
	"github.com/lachlan2k/imob-admin/internal/api"
	"github.com/lachlan2k/imob-admin/internal/session"
)

const (
	storeContextKey      = "session_store"
	diagnosticContextKey = "session_diagnostic"
)

// loadSession gives every page its own store and reconciles it with the Auth Service before the handler runs
func (w *Webserver) loadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		store := session.NewStore()
		c.Set(storeContextKey, store)

		bootstrapper := session.Bootstrapper{
			Prober: w.auth,
			Logger: c.Logger(),
		}

		if diag := bootstrapper.Run(w.backendCtx(c), store); diag != nil {
			c.Set(diagnosticContextKey, diag)
		}

		return next(c)
	}
}

// requireAccess runs after loadSession and keeps people out of screens their role doesn't offer
func (w *Webserver) requireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		snap := storeFrom(c).Current()

		err := accesscontrol.CheckAccess(snap, c.Request().URL.Path)
		switch {
		case err == nil:
			return next(c)

		case errors.Is(err, accesscontrol.ErrNotSignedIn):
			// The cookie got us past the guard but the Auth Service doesn't know it (anymore)
			msg := "Your session has expired, please log in again."
			if diagnosticFrom(c) != nil {
				msg = "We couldn't verify your session, please log in again."
			}
			w.expireSessionCookie(c)
			return w.finish(c, http.StatusUnauthorized, session.Flash{Kind: session.FlashWarning, Message: msg}, w.guard.LoginPath(), nil)

		case errors.Is(err, accesscontrol.ErrForbidden):
			c.Logger().Warnf("%v", err)
			return w.renderError(c, http.StatusForbidden, "You are not allowed to access this page.")

		default:
			c.Logger().Errorf("unexpected access check failure: %v", err)
			return w.renderError(c, http.StatusServiceUnavailable, "Please try again in a moment.")
		}
	}
}

func storeFrom(c echo.Context) *session.Store {
	store, ok := c.Get(storeContextKey).(*session.Store)
	if !ok {
		// Only reachable from a route registered without loadSession
		store = session.NewStore()
		store.SetLoadingDone()
		c.Set(storeContextKey, store)
	}
	return store
}

func diagnosticFrom(c echo.Context) error {
	diag, _ := c.Get(diagnosticContextKey).(error)
	return diag
}

// backendCtx is the request's context carrying the browser's session cookie for outbound calls
func (w *Webserver) backendCtx(c echo.Context) context.Context {
	ctx := c.Request().Context()

	cookie, err := c.Cookie(w.conf.Session.Cookie.Name)
	if err == nil && cookie.Value != "" {
		ctx = api.WithSessionCookie(ctx, cookie.Value)
	}

	return ctx
}

// relayCookies hands the Auth Service's cookies to the browser, scoped to our own host
func (w *Webserver) relayCookies(c echo.Context, cookies []*http.Cookie) {
	for _, backendCookie := range cookies {
		cookie := *backendCookie
		cookie.Domain = ""
		if cookie.Path == "" {
			cookie.Path = "/"
		}
		cookie.HttpOnly = true
		cookie.Raw = ""
		cookie.Unparsed = nil
		c.SetCookie(&cookie)
	}
}

func (w *Webserver) expireSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     w.conf.Session.Cookie.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
