package webserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lachlan2k/imob-admin/internal/accesscontrol"
	"github.com/lachlan2k/imob-admin/internal/api"
	"github.com/lachlan2k/imob-admin/internal/session"
)

type propertyRow struct {
	api.Property
	CanManage bool `json:"canManage"`
}

type propertyDetail struct {
	Property  api.Property `json:"property"`
	Photos    []api.Photo  `json:"photos"`
	CanManage bool         `json:"canManage"`
}

func (w *Webserver) registerPropertyRoutes(g *echo.Group) {
	g.GET("", w.listPropertiesRouteHandler)
	g.GET("/meus", w.myPropertiesRouteHandler)
	g.GET("/visualizar/:id", w.showPropertyRouteHandler)
	g.GET("/criar", w.newPropertyRouteHandler)
	g.POST("/criar", w.createPropertyRouteHandler)
	g.GET("/editar/:id", w.showPropertyRouteHandler)
	g.POST("/editar/:id", w.updatePropertyRouteHandler)
	g.POST("/excluir/:id", w.deletePropertyRouteHandler)
	g.POST("/:id/fotos", w.uploadPhotoRouteHandler)
	g.POST("/:id/fotos/excluir/:photoId", w.deletePhotoRouteHandler)
}

func (w *Webserver) propertyRows(c echo.Context, properties []api.Property) []propertyRow {
	snap := storeFrom(c).Current()

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		properties = api.Filter(properties, func(p api.Property) bool {
			fields := []string{p.Title, p.Street, p.Status}
			if p.Neighborhood != nil {
				fields = append(fields, p.Neighborhood.Name, p.Neighborhood.City)
			}
			return containsAny(q, fields...)
		})
	}

	rows := make([]propertyRow, len(properties))
	for i, p := range properties {
		rows[i] = propertyRow{Property: p, CanManage: accesscontrol.CanManageProperty(snap, p.OwnerID())}
	}
	return rows
}

func (w *Webserver) listPropertiesRouteHandler(c echo.Context) error {
	ctx := w.backendCtx(c)

	var (
		properties []api.Property
		err        error
	)

	// Narrowing down is done by the backend when asked for
	switch {
	case c.QueryParam("bairro") != "":
		var id int64
		if id, err = strconv.ParseInt(c.QueryParam("bairro"), 10, 64); err == nil {
			properties, err = w.backend.Properties.ByNeighborhood(ctx, id)
		}
	case c.QueryParam("tipo") != "":
		var id int64
		if id, err = strconv.ParseInt(c.QueryParam("tipo"), 10, 64); err == nil {
			properties, err = w.backend.Properties.ByType(ctx, id)
		}
	case c.QueryParam("usuario") != "":
		var id int64
		if id, err = strconv.ParseInt(c.QueryParam("usuario"), 10, 64); err == nil {
			properties, err = w.backend.Properties.ByUser(ctx, id)
		}
	default:
		properties, err = w.backend.Properties.List(ctx)
	}

	if _, isNumErr := err.(*strconv.NumError); isNumErr {
		return w.renderError(c, http.StatusBadRequest, "Invalid filter id.")
	}
	if err != nil {
		return w.backendError(c, err, "load the properties")
	}

	return w.render(c, http.StatusOK, w.propertyRows(c, properties))
}

func (w *Webserver) myPropertiesRouteHandler(c echo.Context) error {
	properties, err := w.backend.Properties.Mine(w.backendCtx(c))
	if err != nil {
		return w.backendError(c, err, "load your properties")
	}

	return w.render(c, http.StatusOK, w.propertyRows(c, properties))
}

func (w *Webserver) showPropertyRouteHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return w.renderError(c, http.StatusBadRequest, err.Error())
	}

	ctx := w.backendCtx(c)

	property, err := w.backend.Properties.Get(ctx, id)
	if err != nil {
		return w.backendError(c, err, "load this property")
	}

	canManage := accesscontrol.CanManageProperty(storeFrom(c).Current(), property.OwnerID())
	if strings.Contains(c.Path(), "/editar/") && !canManage {
		return w.renderError(c, http.StatusForbidden, "You can only edit your own properties.")
	}

	photos, err := w.backend.Photos.ForProperty(ctx, id)
	if err != nil {
		// The property is still worth showing without its photos
		c.Logger().Warnf("couldn't load photos for property %d: %v", id, err)
		photos = []api.Photo{}
	}

	return w.render(c, http.StatusOK, propertyDetail{
		Property:  property,
		Photos:    photos,
		CanManage: canManage,
	})
}

// Form defaults match what the backend would pick anyway
func (w *Webserver) newPropertyRouteHandler(c echo.Context) error {
	return w.render(c, http.StatusOK, api.Property{
		Purpose: "VENDA_E_ALUGUEL",
		Status:  "DISPONIVEL",
	})
}

func (w *Webserver) createPropertyRouteHandler(c echo.Context) error {
	var property api.Property
	if err := c.Bind(&property); err != nil {
		return w.renderError(c, http.StatusBadRequest, bindErrorMessage(err))
	}

	property = property.ForWrite()

	snap := storeFrom(c).Current()
	if property.UserID == 0 || !snap.IsAdmin() {
		property.UserID = snap.Session.ID
	}

	created, err := w.backend.Properties.Create(w.backendCtx(c), property)
	if err != nil {
		return w.backendError(c, err, "create the property")
	}

	return w.finish(c, http.StatusOK, session.Flash{Kind: session.FlashSuccess, Message: "Property created."}, "/imoveis/meus", created)
}

// ownedProperty loads a property and checks the current user may change it. A nil property means a response was written
func (w *Webserver) ownedProperty(c echo.Context, idName string, action string) (*api.Property, error) {
	id, err := idParam(c, idName)
	if err != nil {
		return nil, w.renderError(c, http.StatusBadRequest, err.Error())
	}

	existing, err := w.backend.Properties.Get(w.backendCtx(c), id)
	if err != nil {
		return nil, w.backendError(c, err, action)
	}

	if !accesscontrol.CanManageProperty(storeFrom(c).Current(), existing.OwnerID()) {
		return nil, w.renderError(c, http.StatusForbidden, "You can only change your own properties.")
	}

	return &existing, nil
}

func (w *Webserver) updatePropertyRouteHandler(c echo.Context) error {
	existing, err := w.ownedProperty(c, "id", "update the property")
	if existing == nil {
		return err
	}

	var property api.Property
	if err := c.Bind(&property); err != nil {
		return w.renderError(c, http.StatusBadRequest, bindErrorMessage(err))
	}

	// Ownership doesn't change through the edit form
	property = property.ForWrite()
	property.UserID = existing.OwnerID()

	updated, err := w.backend.Properties.Update(w.backendCtx(c), existing.ID, property)
	if err != nil {
		return w.backendError(c, err, "update the property")
	}

	return w.finish(c, http.StatusOK, session.Flash{Kind: session.FlashSuccess, Message: "Property updated."}, "/imoveis/visualizar/"+strconv.FormatInt(existing.ID, 10), updated)
}

func (w *Webserver) deletePropertyRouteHandler(c echo.Context) error {
	existing, err := w.ownedProperty(c, "id", "delete the property")
	if existing == nil {
		return err
	}

	if err := w.backend.Properties.Delete(w.backendCtx(c), existing.ID); err != nil {
		return w.backendError(c, err, "delete the property")
	}

	return w.finish(c, http.StatusOK, session.Flash{Kind: session.FlashSuccess, Message: "Property deleted."}, "/imoveis/meus", nil)
}

func (w *Webserver) uploadPhotoRouteHandler(c echo.Context) error {
	existing, err := w.ownedProperty(c, "id", "upload the photo")
	if existing == nil {
		return err
	}

	header, err := c.FormFile("arquivo")
	if err != nil {
		return w.renderError(c, http.StatusBadRequest, "Please select an image.")
	}

	if !strings.HasPrefix(header.Header.Get(echo.HeaderContentType), "image/") {
		return w.renderError(c, http.StatusBadRequest, "Please select a valid image file (JPEG, PNG, etc.).")
	}

	file, err := header.Open()
	if err != nil {
		return w.renderError(c, http.StatusBadRequest, "Couldn't read the uploaded image.")
	}
	defer file.Close()

	meta := api.Photo{PropertyID: existing.ID}
	meta.Cover, _ = strconv.ParseBool(c.FormValue("capa"))
	meta.Order, _ = strconv.Atoi(c.FormValue("ordem"))

	created, err := w.backend.Photos.Upload(w.backendCtx(c), header.Filename, file, meta)
	if err != nil {
		return w.backendError(c, err, "upload the photo")
	}

	return w.finish(c, http.StatusOK, session.Flash{Kind: session.FlashSuccess, Message: "Photo uploaded."}, "/imoveis/visualizar/"+strconv.FormatInt(existing.ID, 10), created)
}

func (w *Webserver) deletePhotoRouteHandler(c echo.Context) error {
	existing, err := w.ownedProperty(c, "id", "delete the photo")
	if existing == nil {
		return err
	}

	photoID, err := idParam(c, "photoId")
	if err != nil {
		return w.renderError(c, http.StatusBadRequest, err.Error())
	}

	photo, err := w.backend.Photos.Get(w.backendCtx(c), photoID)
	if err != nil {
		return w.backendError(c, err, "delete the photo")
	}
	if photo.PropertyID != existing.ID {
		// Owning one property says nothing about another property's photos
		return w.renderError(c, http.StatusNotFound, "Not found.")
	}

	if err := w.backend.Photos.Delete(w.backendCtx(c), photoID); err != nil {
		return w.backendError(c, err, "delete the photo")
	}

	return w.finish(c, http.StatusOK, session.Flash{Kind: session.FlashSuccess, Message: "Photo deleted."}, "/imoveis/visualizar/"+strconv.FormatInt(existing.ID, 10), nil)
}
