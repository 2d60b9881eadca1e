package webserver

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/lachlan2k/imob-admin/internal/api"
	"github.com/lachlan2k/imob-admin/internal/authclient"
	"github.com/lachlan2k/imob-admin/internal/config"
	"github.com/lachlan2k/imob-admin/internal/guard"
	"github.com/lachlan2k/imob-admin/internal/session"
)

type Webserver struct {
	echo    *echo.Echo
	conf    *config.Config
	guard   *guard.Guard
	auth    *authclient.Client
	backend *api.Backend
	flash   *session.FlashHandler
}

func New() *Webserver {
	e := echo.New()
	e.HideBanner = true

	return &Webserver{echo: e}
}

func (w *Webserver) Logger() echo.Logger {
	return w.echo.Logger
}

// Setup wires everything up without listening, so tests can drive the server through ServeHTTP
func (w *Webserver) Setup(conf *config.Config) {
	w.conf = conf

	apiClient := api.New(conf.API.BaseURL, conf.Session.Cookie.Name, conf.APITimeout())
	w.auth = authclient.New(apiClient)
	w.backend = api.NewBackend(apiClient)

	w.guard = guard.New(conf.Guard.ProtectedPrefixes, conf.Session.Cookie.Name, conf.Guard.LoginPath)

	w.flash = &session.FlashHandler{
		Secret:       []byte(conf.Session.Cookie.Secret),
		CookieSecure: conf.Session.Cookie.Secure,
		Lifetime:     conf.FlashLifetime(),
	}

	w.echo.Logger.SetLevel(log.INFO)

	// Pre runs before routing. The guard goes last so redirects still get an id and a log line
	w.echo.Pre(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	w.echo.Pre(middleware.Logger())
	w.echo.Pre(middleware.Recover())
	w.echo.Pre(w.guard.Middleware())

	w.registerRoutes()
}

func (w *Webserver) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	w.echo.ServeHTTP(rw, r)
}

func (w *Webserver) Run(conf *config.Config) {
	w.Setup(conf)

	err := w.echo.Start(fmt.Sprintf(":%d", conf.ListenPort))
	w.echo.Logger.Fatal(err)
}

func (w *Webserver) registerRoutes() {
	w.echo.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	// Group level middleware only runs for routes in a prefixed group, so the top level pages list theirs per route
	e := w.echo

	e.GET("/", w.homeRouteHandler, w.loadSession)
	e.GET("/login", w.loginPageRouteHandler, w.loadSession)
	e.POST("/login", w.loginRouteHandler, w.loadSession)
	e.GET("/logout", w.logoutRouteHandler, w.loadSession)
	e.POST("/logout", w.logoutRouteHandler, w.loadSession)
	e.GET("/auth/session", w.sessionInfoRouteHandler, w.loadSession)
	e.GET("/dashboard", w.dashboardRouteHandler, w.loadSession, w.requireAccess)

	restricted := func(prefix string) *echo.Group {
		return e.Group(prefix, w.loadSession, w.requireAccess)
	}

	w.registerPropertyRoutes(restricted("/imoveis"))

	registerCRUD(restricted("/bairros"), &crudScreen[api.Neighborhood]{
		w:        w,
		noun:     "Neighborhood",
		resource: w.backend.Neighborhoods,
		matches: func(n api.Neighborhood, q string) bool {
			return containsAny(q, n.Name, n.City, n.State)
		},
	})

	registerCRUD(restricted("/tipos-imoveis"), &crudScreen[api.PropertyType]{
		w:        w,
		noun:     "Property type",
		resource: w.backend.PropertyTypes,
		matches: func(t api.PropertyType, q string) bool {
			return containsAny(q, t.Name, t.Description)
		},
	})

	registerCRUD(restricted("/usuarios"), &crudScreen[api.User]{
		w:        w,
		noun:     "User",
		resource: w.backend.Users,
		matches: func(u api.User, q string) bool {
			return containsAny(q, u.Name, u.Email, u.Role)
		},
		prepare: prepareUser,
	})
}
