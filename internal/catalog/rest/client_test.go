package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nrstore/storefront/internal/catalog"
	"github.com/nrstore/storefront/internal/model"
)

// fakeTokens is a static catalog.TokenSource.
type fakeTokens struct{ token string }

func (f fakeTokens) Token() string { return f.token }

func newTestClient(t *testing.T, token string, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, fakeTokens{token}, 0)
}

func TestListProducts(t *testing.T) {
	client := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/items" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]model.Product{
			{ID: 1, Name: "Puff", Price: 9.5, Stock: 3},
		})
	}))

	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Puff" {
		t.Errorf("unexpected products: %+v", products)
	}
}

func TestAuthHeaderAttachedWhenPresent(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, "tok123", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(model.Product{ID: 1})
	}))

	client.CreateProduct(context.Background(), model.ProductDraft{Name: "X"})
	if gotAuth != "Bearer tok123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestNoAuthHeaderWhenAnonymous(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]model.Product{})
	}))

	client.ListProducts(context.Background())
	if gotAuth != "" {
		t.Errorf("expected no auth header for anonymous call, got %q", gotAuth)
	}
}

func TestReduceStockPayload(t *testing.T) {
	var gotPath string
	var gotBody map[string]int
	client := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.ReduceStock(context.Background(), 7, 2); err != nil {
		t.Fatalf("ReduceStock: %v", err)
	}
	if gotPath != "PUT /items/7/stock" {
		t.Errorf("unexpected request: %s", gotPath)
	}
	if gotBody["qty"] != 2 {
		t.Errorf("expected qty 2, got %d", gotBody["qty"])
	}
}

func TestUnauthorizedMapped(t *testing.T) {
	client := newTestClient(t, "stale", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := client.DeleteProduct(context.Background(), 1)
	if !errors.Is(err, catalog.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestNotFoundMapped(t *testing.T) {
	client := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetProduct(context.Background(), 42)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServerErrorWrapped(t *testing.T) {
	client := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.ListProducts(context.Background())
	if !errors.Is(err, catalog.ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected response body in error, got %q", err.Error())
	}
}

func TestUploadImage(t *testing.T) {
	client := newTestClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("expected 'image' form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "photo.jpg" {
			t.Errorf("expected filename photo.jpg, got %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "jpeg bytes" {
			t.Errorf("unexpected file data: %q", data)
		}
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/photo.jpg"})
	}))

	url, err := client.UploadImage(context.Background(), "photo.jpg", strings.NewReader("jpeg bytes"))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if url != "https://cdn.example.com/photo.jpg" {
		t.Errorf("unexpected url: %q", url)
	}
}

func TestPostCommentReturnsUpdatedThread(t *testing.T) {
	client := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/comments/5" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "ana" || body["comment"] != "great" {
			t.Errorf("unexpected body: %v", body)
		}
		json.NewEncoder(w).Encode([]model.Comment{
			{Username: "old", Text: "earlier", Date: "2026-01-01 10:00"},
			{Username: "ana", Text: "great", Date: "2026-01-02 11:00"},
		})
	}))

	comments, err := client.PostComment(context.Background(), 5, "ana", "great")
	if err != nil {
		t.Fatalf("PostComment: %v", err)
	}
	if len(comments) != 2 || comments[1].Username != "ana" {
		t.Errorf("unexpected thread: %+v", comments)
	}
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "minted"})
	}))

	token, err := client.Login(context.Background(), "admin", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "minted" {
		t.Errorf("unexpected token: %q", token)
	}

	_, err = client.Login(context.Background(), "admin", "wrong")
	if !errors.Is(err, catalog.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for bad credentials, got %v", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	var saved model.Settings
	client := newTestClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(model.Settings{InstagramUsername: "nr.store"})
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&saved)
			w.WriteHeader(http.StatusOK)
		}
	}))

	s, err := client.Settings(context.Background())
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if s.InstagramUsername != "nr.store" {
		t.Errorf("unexpected settings: %+v", s)
	}

	if err := client.SaveSettings(context.Background(), model.Settings{InstagramUsername: "new.handle"}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if saved.InstagramUsername != "new.handle" {
		t.Errorf("expected saved handle, got %q", saved.InstagramUsername)
	}
}
