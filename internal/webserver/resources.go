package webserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lachlan2k/imob-admin/internal/api"
	"github.com/lachlan2k/imob-admin/internal/session"
)

// crudScreen is the list/view/create/edit/delete set of screens for one backend collection
type crudScreen[T any] struct {
	w        *Webserver
	noun     string
	resource *api.Resource[T]
	matches  func(item T, q string) bool
	// prepare may fix up or reject a submitted item before it's sent
	prepare func(item *T, creating bool) error
}

func registerCRUD[T any](g *echo.Group, s *crudScreen[T]) {
	g.GET("", s.list)
	g.GET("/visualizar/:id", s.show)
	g.GET("/criar", s.newForm)
	g.POST("/criar", s.create)
	g.GET("/editar/:id", s.show)
	g.POST("/editar/:id", s.update)
	g.POST("/excluir/:id", s.remove)
}

func (s *crudScreen[T]) list(c echo.Context) error {
	items, err := s.resource.List(s.w.backendCtx(c))
	if err != nil {
		return s.w.backendError(c, err, "load the list")
	}

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		items = api.Filter(items, func(item T) bool { return s.matches(item, q) })
	}

	return s.w.render(c, http.StatusOK, items)
}

func (s *crudScreen[T]) show(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return s.w.renderError(c, http.StatusBadRequest, err.Error())
	}

	item, err := s.resource.Get(s.w.backendCtx(c), id)
	if err != nil {
		return s.w.backendError(c, err, "load this "+strings.ToLower(s.noun))
	}

	return s.w.render(c, http.StatusOK, item)
}

func (s *crudScreen[T]) newForm(c echo.Context) error {
	var blank T
	return s.w.render(c, http.StatusOK, blank)
}

func (s *crudScreen[T]) bindItem(c echo.Context, creating bool) (*T, error) {
	item := new(T)
	if err := c.Bind(item); err != nil {
		return nil, err
	}
	if s.prepare != nil {
		if err := s.prepare(item, creating); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func (s *crudScreen[T]) create(c echo.Context) error {
	item, err := s.bindItem(c, true)
	if err != nil {
		return s.w.renderError(c, http.StatusBadRequest, bindErrorMessage(err))
	}

	created, err := s.resource.Create(s.w.backendCtx(c), *item)
	if err != nil {
		return s.w.backendError(c, err, "create the "+strings.ToLower(s.noun))
	}

	return s.w.finish(c, http.StatusOK, session.Flash{Kind: session.FlashSuccess, Message: s.noun + " created."}, routePrefix(c.Path()), created)
}

func (s *crudScreen[T]) update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return s.w.renderError(c, http.StatusBadRequest, err.Error())
	}

	item, err := s.bindItem(c, false)
	if err != nil {
		return s.w.renderError(c, http.StatusBadRequest, bindErrorMessage(err))
	}

	updated, err := s.resource.Update(s.w.backendCtx(c), id, *item)
	if err != nil {
		return s.w.backendError(c, err, "update the "+strings.ToLower(s.noun))
	}

	return s.w.finish(c, http.StatusOK, session.Flash{Kind: session.FlashSuccess, Message: s.noun + " updated."}, routePrefix(c.Path()), updated)
}

func (s *crudScreen[T]) remove(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return s.w.renderError(c, http.StatusBadRequest, err.Error())
	}

	if err := s.resource.Delete(s.w.backendCtx(c), id); err != nil {
		return s.w.backendError(c, err, "delete the "+strings.ToLower(s.noun))
	}

	return s.w.finish(c, http.StatusOK, session.Flash{Kind: session.FlashSuccess, Message: s.noun + " deleted."}, routePrefix(c.Path()), nil)
}

// routePrefix is the collection a route belongs to, "/bairros/editar/:id" gives "/bairros"
func routePrefix(routePath string) string {
	trimmed := strings.TrimPrefix(routePath, "/")
	if i := strings.Index(trimmed, "/"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return "/" + trimmed
}

func idParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", c.Param(name))
	}
	return id, nil
}

func bindErrorMessage(err error) string {
	if httpErr, ok := err.(*echo.HTTPError); ok {
		if msg, ok := httpErr.Message.(string); ok {
			return msg
		}
	}
	return err.Error()
}

// New users default to customers, like the backend's signup form
func prepareUser(u *api.User, creating bool) error {
	if strings.TrimSpace(u.Role) == "" {
		u.Role = string(session.RoleCustomer)
	}

	role, err := session.ParseRole(u.Role)
	if err != nil {
		return fmt.Errorf("unknown user type %q", u.Role)
	}
	u.Role = string(role)

	if creating && u.Password == "" {
		return errors.New("a password is required for new users")
	}
	return nil
}
