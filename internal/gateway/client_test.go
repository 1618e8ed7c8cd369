package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spec-kit/restaurant-site/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return New(server.URL, opts...), &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestAdminCategories_SendsBearerToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/categories" {
			t.Errorf("expected path /admin/categories, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", got)
		}
		writeJSON(w, http.StatusOK, []domain.Category{{ID: "c1", Name: "Mains", Items: []domain.Item{{Name: "Ramen"}}}})
	}, WithTokenSource(TokenFunc(func() string { return "tok" })))

	categories, err := c.AdminCategories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 1 || categories[0].Items[0].Name != "Ramen" {
		t.Errorf("unexpected categories %+v", categories)
	}
}

func TestPublicCalls_SendNoToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("public endpoints must not carry the admin token")
		}
		writeJSON(w, http.StatusOK, []domain.Category{})
	}, WithTokenSource(TokenFunc(func() string { return "tok" })))

	if _, err := c.Categories(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnauthorized_FiresHook(t *testing.T) {
	var hooked int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]string{"code": "UNAUTHORIZED", "message": "invalid token"}})
	}, WithUnauthorizedHandler(func() { atomic.AddInt32(&hooked, 1) }))

	calls := []struct {
		name string
		call func() error
	}{
		{"list", func() error { _, err := c.AdminCategories(context.Background()); return err }},
		{"reorder", func() error { return c.ReorderItems(context.Background(), "c1", []string{"A"}) }},
		{"delete item", func() error { return c.DeleteItem(context.Background(), "c1", "A") }},
		{"delete category", func() error { return c.DeleteCategory(context.Background(), "c1") }},
	}
	for _, tt := range calls {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
	if atomic.LoadInt32(&hooked) != int32(len(calls)) {
		t.Errorf("expected the hook once per 401, got %d", hooked)
	}
}

func TestLogin(t *testing.T) {
	var hooked bool
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "s3cret" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]string{"code": "UNAUTHORIZED", "message": "invalid email or password"}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": "a.b.c"})
	}, WithUnauthorizedHandler(func() { hooked = true }))

	token, err := c.Login(context.Background(), "chef@example.com", "s3cret")
	if err != nil || token != "a.b.c" {
		t.Fatalf("unexpected result %q, %v", token, err)
	}

	_, err = c.Login(context.Background(), "chef@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "invalid email or password" {
		t.Errorf("expected the backend message, got %v", err)
	}
	if hooked {
		t.Error("bad credentials are not a session expiry")
	}
}

func TestNetworkErrorIsNotUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	var hooked bool
	c := New(url, WithUnauthorizedHandler(func() { hooked = true }))
	_, err := c.AdminCategories(context.Background())

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if errors.Is(err, ErrUnauthorized) || hooked {
		t.Error("transport failures must not look like a 401")
	}
}

func TestInvalidBodyIsNetworkError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "<html>")
	})
	_, err := c.Categories(context.Background())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Errorf("expected NetworkError, got %v", err)
	}
}

func TestAPIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{"error": map[string]any{
			"code": "CONFLICT", "message": "duplicate", "details": map[string]string{"name": "Tea"},
		}})
	})
	_, err := c.CreateItem(context.Background(), "c1", domain.Item{Name: "Tea"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Code != "CONFLICT" || apiErr.Details["name"] != "Tea" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestValidationHappensBeforeNetwork(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"login", func() error { _, err := c.Login(ctx, " ", ""); return err }},
		{"category", func() error { _, err := c.CreateCategory(ctx, domain.Category{Name: ""}); return err }},
		{"update category", func() error { _, err := c.UpdateCategory(ctx, "c1", domain.Category{Name: "x", SortOrder: -1}); return err }},
		{"item", func() error { _, err := c.CreateItem(ctx, "c1", domain.Item{Name: "Tea", Price: -1}); return err }},
		{"update item", func() error { _, err := c.UpdateItem(ctx, "c1", "Tea", domain.Item{}); return err }},
		{"restaurant", func() error { _, err := c.UpdateRestaurant(ctx, domain.Restaurant{}); return err }},
		{"upload", func() error { _, err := c.UploadImage(ctx, "", "image/png", strings.NewReader("x")); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var vErr *ValidationError
			if err := tt.call(); !errors.As(err, &vErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Errorf("expected no requests, got %d", *calls)
	}
}

func TestReorderItems_WireFormat(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.EscapedPath() != "/admin/categories/c%201/reorder-items" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.EscapedPath())
		}
		var body struct {
			ItemNamesInOrder []string `json:"itemNamesInOrder"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if strings.Join(body.ItemNamesInOrder, ",") != "B,A" {
			t.Errorf("unexpected body %+v", body)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.ReorderItems(context.Background(), "c 1", []string{"B", "A"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteItem_EscapesName(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/admin/categories/c1/items/Fish%20&%20Chips%2Fto%20go" {
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.DeleteItem(context.Background(), "c1", "Fish & Chips/to go"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUploadImage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("expected multipart file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		raw, _ := io.ReadAll(file)
		if header.Filename != "hero.png" || header.Header.Get("Content-Type") != "image/png" || string(raw) != "png" {
			t.Errorf("unexpected upload %s %s %q", header.Filename, header.Header.Get("Content-Type"), raw)
		}
		writeJSON(w, http.StatusCreated, domain.Image{ID: "img-1", URL: "/uploads/x.png"})
	})

	image, err := c.UploadImage(context.Background(), "hero.png", "image/png", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if image.URL != "/uploads/x.png" {
		t.Errorf("unexpected image %+v", image)
	}
}

func TestImages_UsesSuppliedHTTPClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/admin/images" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, []domain.Image{{ID: "i1", FileName: "hero.png", URL: "/uploads/i1.png"}})
	}))
	t.Cleanup(server.Close)

	c := New(server.URL+"/", WithHTTPClient(server.Client()))
	if c.BaseURL() != server.URL {
		t.Errorf("expected trailing slash trimmed, got %s", c.BaseURL())
	}
	images, err := c.Images(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(images) != 1 || images[0].URL != "/uploads/i1.png" {
		t.Errorf("unexpected images %+v", images)
	}
}
