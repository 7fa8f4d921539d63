package upstream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizationHeaderScheme(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	var out map[string]interface{}
	if err := client.GetJSON(context.Background(), "tok-123", "/order/all-orders", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	assert.Equal(t, "System tok-123", got)
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	if err := client.PostJSON(context.Background(), "", "/auth/login", map[string]string{"email": "a"}, nil); err != nil {
		t.Fatalf("post: %v", err)
	}
	assert.Empty(t, got)
}

func TestUnauthorizedWithTokenIsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	err := client.GetJSON(context.Background(), "expired", "/product", nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUnauthorizedWithoutTokenIsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	err := client.PostJSON(context.Background(), "", "/auth/login", map[string]string{}, nil)
	if errors.Is(err, ErrUnauthorized) {
		t.Fatal("login 401 must not read as session expiry")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
	assert.Equal(t, "Invalid credentials", statusErr.Message)
}

func TestStatusErrorCarriesBackendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"status":"error","message":"Category name taken"}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	err := client.Delete(context.Background(), "tok", "/category/abc")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	assert.Equal(t, 422, statusErr.Code)
	assert.Equal(t, "Category name taken", statusErr.Message)
}

func TestPostFormForwardsFieldsAndFiles(t *testing.T) {
	var gotName, gotFile string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("upstream did not receive multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotName = r.FormValue("name")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		gotFile = header.Filename + ":" + string(content)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	form := buildForm(t, map[string]string{"name": "Skincare"}, "file", "logo.png", "png-bytes")
	client := New(server.URL, time.Second)
	if err := client.PostForm(context.Background(), "tok", "/category", form); err != nil {
		t.Fatalf("post form: %v", err)
	}
	assert.Equal(t, "Skincare", gotName)
	assert.Equal(t, "logo.png:png-bytes", gotFile)
}

// buildForm assembles a parsed multipart.Form the way fiber hands one to a
// handler.
func buildForm(t *testing.T, fields map[string]string, fileField, filename, content string) *multipart.Form {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatal(err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	return form
}
