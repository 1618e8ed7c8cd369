package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/spec-kit/restaurant-site/internal/api/dto"
	"github.com/spec-kit/restaurant-site/internal/domain"
)

// Categories calls GET /categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "/categories", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// Restaurant calls GET /restaurant.
func (c *Client) Restaurant(ctx context.Context) (*domain.Restaurant, error) {
	var out domain.Restaurant
	if err := c.do(ctx, request{method: http.MethodGet, path: "/restaurant", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login calls POST /login and returns the access token. Bad credentials come back as *APIError
// with the backend's message; they do not fire the unauthorized hook.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	problems := map[string]any{}
	if strings.TrimSpace(email) == "" {
		problems["email"] = "required"
	}
	if password == "" {
		problems["password"] = "required"
	}
	if err := validate(problems); err != nil {
		return "", err
	}

	var out dto.LoginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/login",
		body:   dto.LoginRequest{Email: email, Password: password},
		out:    &out,
	})
	if err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &NetworkError{Op: "POST /login", Err: fmt.Errorf("response carried no access token")}
	}
	return out.AccessToken, nil
}

// Logout calls POST /admin/logout.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/admin/logout", admin: true})
}

// AdminCategories calls GET /admin/categories.
func (c *Client) AdminCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/categories", admin: true, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory calls POST /admin/categories.
func (c *Client) CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	if err := validate(category.Validate()); err != nil {
		return nil, err
	}
	var out domain.Category
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/admin/categories",
		body:   categoryRequest(category),
		admin:  true,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory calls PUT /admin/categories/{id}.
func (c *Client) UpdateCategory(ctx context.Context, id string, category domain.Category) (*domain.Category, error) {
	if err := validate(category.Validate()); err != nil {
		return nil, err
	}
	var out domain.Category
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   categoryPath(id),
		body:   categoryRequest(category),
		admin:  true,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory calls DELETE /admin/categories/{id}.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: categoryPath(id), admin: true})
}

// CreateItem calls POST /admin/categories/{id}/items.
func (c *Client) CreateItem(ctx context.Context, categoryID string, item domain.Item) (*domain.Item, error) {
	if err := validate(item.Validate()); err != nil {
		return nil, err
	}
	var out domain.Item
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   categoryPath(categoryID) + "/items",
		body:   itemRequest(item),
		admin:  true,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateItem calls PUT /admin/categories/{id}/items/{name}.
func (c *Client) UpdateItem(ctx context.Context, categoryID, name string, item domain.Item) (*domain.Item, error) {
	if err := validate(item.Validate()); err != nil {
		return nil, err
	}
	var out domain.Item
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   itemPath(categoryID, name),
		body:   itemRequest(item),
		admin:  true,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteItem calls DELETE /admin/categories/{id}/items/{name}.
func (c *Client) DeleteItem(ctx context.Context, categoryID, name string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: itemPath(categoryID, name), admin: true})
}

// ReorderItems calls PUT /admin/categories/{id}/reorder-items.
func (c *Client) ReorderItems(ctx context.Context, categoryID string, namesInOrder []string) error {
	if namesInOrder == nil {
		namesInOrder = []string{}
	}
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   categoryPath(categoryID) + "/reorder-items",
		body:   dto.ReorderItemsRequest{ItemNamesInOrder: namesInOrder},
		admin:  true,
	})
}

// AdminRestaurant calls GET /admin/restaurant.
func (c *Client) AdminRestaurant(ctx context.Context) (*domain.Restaurant, error) {
	var out domain.Restaurant
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/restaurant", admin: true, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRestaurant calls PUT /admin/restaurant.
func (c *Client) UpdateRestaurant(ctx context.Context, info domain.Restaurant) (*domain.Restaurant, error) {
	if strings.TrimSpace(info.Name) == "" {
		return nil, &ValidationError{Problems: map[string]any{"name": "required"}}
	}
	var out domain.Restaurant
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/admin/restaurant",
		body: dto.RestaurantRequest{
			Name:         info.Name,
			Tagline:      info.Tagline,
			About:        info.About,
			Address:      info.Address,
			Phone:        info.Phone,
			Email:        info.Email,
			Hours:        info.Hours,
			HeroImageURL: info.HeroImageURL,
		},
		admin: true,
		out:   &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Images calls GET /admin/images.
func (c *Client) Images(ctx context.Context) ([]domain.Image, error) {
	var out []domain.Image
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/images", admin: true, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadImage calls POST /admin/images with body as the multipart "file" field.
func (c *Client) UploadImage(ctx context.Context, fileName, contentType string, body io.Reader) (*domain.Image, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, &ValidationError{Problems: map[string]any{"file": "name required"}}
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := form.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	var out domain.Image
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/admin/images",
		raw:         &buf,
		contentType: form.FormDataContentType(),
		admin:       true,
		out:         &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func categoryPath(id string) string {
	return "/admin/categories/" + url.PathEscape(id)
}

func itemPath(categoryID, name string) string {
	return categoryPath(categoryID) + "/items/" + url.PathEscape(name)
}

func categoryRequest(c domain.Category) dto.CategoryRequest {
	visible := c.IsVisible
	return dto.CategoryRequest{
		Name:      c.Name,
		ColorTag:  c.ColorTag,
		IconGlyph: c.IconGlyph,
		SortOrder: c.SortOrder,
		IsVisible: &visible,
		ImageURL:  c.ImageURL,
	}
}

func itemRequest(i domain.Item) dto.ItemRequest {
	available := i.IsAvailable
	return dto.ItemRequest{
		Name:        i.Name,
		Price:       i.Price,
		Description: i.Description,
		IsAvailable: &available,
	}
}
