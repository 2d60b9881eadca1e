package webserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lachlan2k/imob-admin/internal/authclient"
	"github.com/lachlan2k/imob-admin/internal/session"
)

type SessionInfoRes struct {
	Session     *session.Identity `json:"session"`
	Loading     bool              `json:"loading"`
	IsAdmin     bool              `json:"isAdmin"`
	IsBroker    bool              `json:"isBroker"`
	IsAnonymous bool              `json:"isAnonymous"`
}

func (w *Webserver) homeRouteHandler(c echo.Context) error {
	return w.render(c, http.StatusOK, nil)
}

func (w *Webserver) loginPageRouteHandler(c echo.Context) error {
	return w.render(c, http.StatusOK, map[string]any{
		"fields": []string{"email", "senha"},
	})
}

func (w *Webserver) loginRouteHandler(c echo.Context) error {
	logger := c.Logger()

	var creds authclient.Credentials
	if err := c.Bind(&creds); err != nil {
		return w.renderError(c, http.StatusBadRequest, "Invalid login form")
	}

	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return w.renderError(c, http.StatusBadRequest, "Please supply your e-mail and password.")
	}

	// Not backendCtx: a stale session cookie has no business on a fresh login
	res, err := w.auth.Login(c.Request().Context(), creds)
	if err != nil {
		var credErr *authclient.CredentialsError
		if errors.As(err, &credErr) {
			return w.renderError(c, http.StatusUnauthorized, credErr.Message)
		}

		logger.Errorf("Login call to the Auth Service failed: %v", err)
		return w.renderError(c, http.StatusBadGateway, "Couldn't log you in right now, please try again.")
	}

	w.relayCookies(c, res.Cookies)
	storeFrom(c).SetLoggedIn(res.Identity)

	return w.finish(c, http.StatusOK, session.Flash{Kind: session.FlashSuccess, Message: "Logged in successfully."}, "/dashboard", nil)
}

// Local state is cleared even when the Auth Service call fails, so nobody is stuck looking logged in
func (w *Webserver) logoutRouteHandler(c echo.Context) error {
	err := w.auth.Logout(w.backendCtx(c))

	storeFrom(c).Clear()
	w.expireSessionCookie(c)

	flash := session.Flash{Kind: session.FlashSuccess, Message: "You have been logged out."}
	if err != nil {
		c.Logger().Warnf("Logout call to the Auth Service failed: %v", err)
		flash = session.Flash{Kind: session.FlashError, Message: "Couldn't end the session on the server, but you have been logged out here."}
	}

	return w.finish(c, http.StatusOK, flash, w.guard.LoginPath(), nil)
}

func (w *Webserver) sessionInfoRouteHandler(c echo.Context) error {
	snap := storeFrom(c).Current()

	return c.JSON(http.StatusOK, SessionInfoRes{
		Session:     snap.Session,
		Loading:     snap.Loading,
		IsAdmin:     snap.IsAdmin(),
		IsBroker:    snap.IsBroker(),
		IsAnonymous: snap.IsAnonymous(),
	})
}

func (w *Webserver) dashboardRouteHandler(c echo.Context) error {
	snap := storeFrom(c).Current()

	return w.render(c, http.StatusOK, map[string]any{
		"greeting": "Hello, " + snap.Session.Name,
		"role":     snap.Session.Role,
	})
}
