package webserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lachlan2k/imob-admin/internal/accesscontrol"
	"github.com/lachlan2k/imob-admin/internal/api"
	"github.com/lachlan2k/imob-admin/internal/session"
	"github.com/lachlan2k/imob-admin/internal/utils"
)

// pageView is what every screen gets: who's logged in, the header links, any pending message, and its own data
type pageView struct {
	Session *session.Identity       `json:"session"`
	Loading bool                    `json:"loading"`
	Nav     []accesscontrol.NavLink `json:"nav"`
	Flash   *session.Flash          `json:"flash,omitempty"`
	Notice  string                  `json:"notice,omitempty"`
	Data    any                     `json:"data,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (w *Webserver) render(c echo.Context, status int, data any) error {
	return w.renderWithFlash(c, status, nil, data)
}

func (w *Webserver) renderWithFlash(c echo.Context, status int, flash *session.Flash, data any) error {
	snap := storeFrom(c).Current()

	if flash == nil {
		pending, err := w.flash.Pop(c)
		if err != nil {
			c.Logger().Warnf("dropping flash: %v", err)
		}
		flash = pending
	}

	view := pageView{
		Session: snap.Session,
		Loading: snap.Loading,
		Nav:     accesscontrol.Navigation(snap),
		Flash:   flash,
		Data:    data,
	}

	if diagnosticFrom(c) != nil {
		view.Notice = "We couldn't reach the authentication service. Some options may be missing."
	}

	return c.JSON(status, view)
}

func (w *Webserver) renderError(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorResponse{Error: msg})
}

// wantsJSON is true for API style callers, who get the resulting view instead of a redirect
func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// finish ends an action: browsers get the flash stashed in a cookie and are redirected, JSON callers get it inline with status
func (w *Webserver) finish(c echo.Context, status int, flash session.Flash, redirectTo string, data any) error {
	if wantsJSON(c) {
		return w.renderWithFlash(c, status, &flash, data)
	}

	if err := w.flash.Set(c, flash); err != nil {
		c.Logger().Errorf("couldn't set flash: %v", err)
	}

	return c.Redirect(http.StatusFound, redirectTo)
}

// backendError turns a failed listings call into something the user can act on
func (w *Webserver) backendError(c echo.Context, err error, action string) error {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized:
			storeFrom(c).Clear()
			w.expireSessionCookie(c)
			return w.finish(c, http.StatusUnauthorized, session.Flash{Kind: session.FlashWarning, Message: "Your session has expired, please log in again."}, w.guard.LoginPath(), nil)

		case http.StatusForbidden:
			return w.renderError(c, http.StatusForbidden, "You are not allowed to "+action+".")

		case http.StatusNotFound:
			return w.renderError(c, http.StatusNotFound, "Not found.")

		case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
			msg := statusErr.Message
			if msg == "" {
				msg = "Couldn't " + action + "."
			}
			return w.renderError(c, statusErr.StatusCode, msg)
		}
	}

	c.Logger().Errorf("couldn't %s: %v", action, err)
	return w.renderError(c, http.StatusBadGateway, "Couldn't "+action+", please try again.")
}

func containsAny(q string, fields ...string) bool {
	for _, f := range fields {
		if utils.ContainsFold(f, q) {
			return true
		}
	}
	return false
}
