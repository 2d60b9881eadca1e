package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
)

// Resource is the plain CRUD surface every backend collection exposes
type Resource[T any] struct {
	client *Client
	path   string
}

func NewResource[T any](client *Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	return r.listAt(ctx, r.path)
}

func (r *Resource[T]) listAt(ctx context.Context, path string) ([]T, error) {
	items := make([]T, 0)
	if _, err := r.client.Do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var item T
	_, err := r.client.Do(ctx, http.MethodGet, r.itemPath(id), nil, &item)
	return item, err
}

func (r *Resource[T]) Create(ctx context.Context, in T) (T, error) {
	var created T
	_, err := r.client.Do(ctx, http.MethodPost, r.path, in, &created)
	return created, err
}

func (r *Resource[T]) Update(ctx context.Context, id int64, in T) (T, error) {
	var updated T
	_, err := r.client.Do(ctx, http.MethodPut, r.itemPath(id), in, &updated)
	return updated, err
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	_, err := r.client.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
	return err
}

func (r *Resource[T]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

// Filter keeps the items for which keep returns true, in order
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

type Properties struct {
	*Resource[Property]
}

// Mine lists the properties owned by whoever the session belongs to
func (p *Properties) Mine(ctx context.Context) ([]Property, error) {
	return p.listAt(ctx, p.path+"/meus")
}

func (p *Properties) ByNeighborhood(ctx context.Context, neighborhoodID int64) ([]Property, error) {
	return p.listAt(ctx, fmt.Sprintf("%s/bairro/%d", p.path, neighborhoodID))
}

func (p *Properties) ByType(ctx context.Context, typeID int64) ([]Property, error) {
	return p.listAt(ctx, fmt.Sprintf("%s/tipo/%d", p.path, typeID))
}

func (p *Properties) ByUser(ctx context.Context, userID int64) ([]Property, error) {
	return p.listAt(ctx, fmt.Sprintf("%s/usuario/%d", p.path, userID))
}

type Photos struct {
	*Resource[Photo]
}

// ForProperty lists a property's photos sorted by their display order
func (p *Photos) ForProperty(ctx context.Context, propertyID int64) ([]Photo, error) {
	photos, err := p.listAt(ctx, fmt.Sprintf("%s/imoveis/%d", p.path, propertyID))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(photos, func(i, j int) bool { return photos[i].Order < photos[j].Order })
	return photos, nil
}

// Upload sends the image as the "arquivo" part and the metadata as JSON in the "dados" part
func (p *Photos) Upload(ctx context.Context, fileName string, file io.Reader, meta Photo) (Photo, error) {
	var created Photo

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return created, fmt.Errorf("couldn't encode photo metadata: %w", err)
	}

	buff := new(bytes.Buffer)
	form := multipart.NewWriter(buff)

	part, err := form.CreateFormFile("arquivo", fileName)
	if err != nil {
		return created, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return created, fmt.Errorf("couldn't read uploaded photo: %w", err)
	}
	if err := form.WriteField("dados", string(metaJSON)); err != nil {
		return created, err
	}
	if err := form.Close(); err != nil {
		return created, err
	}

	_, err = p.client.send(ctx, http.MethodPost, p.path, buff, form.FormDataContentType(), &created)
	return created, err
}

// Backend bundles every collection the admin screens use
type Backend struct {
	Properties    *Properties
	Neighborhoods *Resource[Neighborhood]
	PropertyTypes *Resource[PropertyType]
	Users         *Resource[User]
	Photos        *Photos
}

func NewBackend(client *Client) *Backend {
	return &Backend{
		Properties:    &Properties{NewResource[Property](client, "/imoveis")},
		Neighborhoods: NewResource[Neighborhood](client, "/bairros"),
		PropertyTypes: NewResource[PropertyType](client, "/tipos-imoveis"),
		Users:         NewResource[User](client, "/users"),
		Photos:        &Photos{NewResource[Photo](client, "/fotos-imoveis")},
	}
}
