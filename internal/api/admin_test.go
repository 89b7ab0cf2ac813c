package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// fakeAdmin is a stateful admin API backed by chi, close enough to the real
// server to exercise path parameters and the dataset_name query.
type fakeAdmin struct {
	server *httptest.Server

	files map[string]string // id -> filename
	urls  map[string]string // id -> url
	users map[int]*UserInfo

	processed []string // "kind:id" in trigger order
}

func newFakeAdmin(t *testing.T) *fakeAdmin {
	t.Helper()
	fa := &fakeAdmin{
		files: map[string]string{},
		urls:  map[string]string{},
		users: map[int]*UserInfo{},
	}

	r := chi.NewRouter()

	r.Get("/api/admin/stats", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, Stats{
			TotalUsers: len(fa.users),
			TotalFiles: len(fa.files),
			TotalURLs:  len(fa.urls),
		})
	})

	r.Get("/api/admin/files", func(w http.ResponseWriter, req *http.Request) {
		files := []FileInfo{}
		for id, name := range fa.files {
			files = append(files, FileInfo{ID: id, Filename: name})
		}
		writeJSON(w, map[string]any{"files": files})
	})

	r.Post("/api/admin/files/upload", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("dataset_name") == "" {
			httpError(w, 400, "dataset_name is required")
			return
		}
		file, header, err := req.FormFile("file")
		if err != nil {
			httpError(w, 400, "missing file field")
			return
		}
		file.Close()
		id := fmt.Sprintf("f%d", len(fa.files)+1)
		fa.files[id] = header.Filename
		writeJSON(w, Ack{Message: "File uploaded successfully"})
	})

	r.Delete("/api/admin/files/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		if _, ok := fa.files[id]; !ok {
			httpError(w, 404, "File not found")
			return
		}
		delete(fa.files, id)
		writeJSON(w, Ack{Message: "File deleted successfully"})
	})

	r.Post("/api/admin/files/{id}/process", func(w http.ResponseWriter, req *http.Request) {
		fa.processed = append(fa.processed, "file:"+chi.URLParam(req, "id"))
		writeJSON(w, Ack{Message: "File processing started"})
	})

	r.Get("/api/admin/files/{id}/preview", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		name, ok := fa.files[id]
		if !ok {
			httpError(w, 404, "File not found")
			return
		}
		writeJSON(w, PreviewResponse{Preview: "contents of " + name})
	})

	r.Post("/api/admin/urls", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			URL     string `json:"url"`
			Dataset string `json:"dataset_name"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.URL == "" {
			httpError(w, 400, "url is required")
			return
		}
		id := fmt.Sprintf("u%d", len(fa.urls)+1)
		fa.urls[id] = body.URL
		writeJSON(w, Ack{Message: "URL added successfully"})
	})

	r.Get("/api/admin/urls", func(w http.ResponseWriter, req *http.Request) {
		urls := []URLInfo{}
		for id, u := range fa.urls {
			urls = append(urls, URLInfo{ID: id, URL: u})
		}
		writeJSON(w, map[string]any{"urls": urls})
	})

	r.Delete("/api/admin/urls/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		if _, ok := fa.urls[id]; !ok {
			httpError(w, 404, "URL not found")
			return
		}
		delete(fa.urls, id)
		writeJSON(w, Ack{Message: "URL deleted successfully"})
	})

	r.Post("/api/admin/urls/{id}/process", func(w http.ResponseWriter, req *http.Request) {
		fa.processed = append(fa.processed, "url:"+chi.URLParam(req, "id"))
		writeJSON(w, Ack{Message: "URL processing started"})
	})

	r.Get("/api/admin/urls/{id}/preview", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		u, ok := fa.urls[id]
		if !ok {
			writeJSON(w, PreviewResponse{Preview: "URL not found in dataset"})
			return
		}
		writeJSON(w, PreviewResponse{Preview: "URL: " + u})
	})

	r.Get("/api/admin/users", func(w http.ResponseWriter, req *http.Request) {
		users := []UserInfo{}
		for _, u := range fa.users {
			users = append(users, *u)
		}
		writeJSON(w, map[string]any{"users": users})
	})

	r.Patch("/api/admin/users/{id}/activate", func(w http.ResponseWriter, req *http.Request) {
		var id int
		fmt.Sscanf(chi.URLParam(req, "id"), "%d", &id)
		u, ok := fa.users[id]
		if !ok {
			httpError(w, 404, "User not found")
			return
		}
		u.IsActive = !u.IsActive
		state := "deactivated"
		if u.IsActive {
			state = "activated"
		}
		writeJSON(w, Ack{Message: fmt.Sprintf("User %s successfully", state)})
	})

	fa.server = httptest.NewServer(r)
	t.Cleanup(fa.server.Close)
	return fa
}

func (fa *fakeAdmin) client() *Client {
	c := New(fa.server.URL, "test-token")
	c.httpClient = fa.server.Client()
	return c
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func TestUploadFile(t *testing.T) {
	fa := newFakeAdmin(t)
	c := fa.client()

	ack, err := c.UploadFile(ctx, "default", "notes.md", strings.NewReader("# notes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ack.Message != "File uploaded successfully" {
		t.Errorf("message = %q", ack.Message)
	}

	files, err := c.ListFiles(ctx, "default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0].Filename != "notes.md" {
		t.Errorf("files = %+v, want single notes.md entry", files)
	}
}

func TestUploadFile_RequiresDataset(t *testing.T) {
	fa := newFakeAdmin(t)

	_, err := fa.client().UploadFile(ctx, "", "notes.md", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error for empty dataset")
	}
}

func TestAddAndDeleteURL(t *testing.T) {
	fa := newFakeAdmin(t)
	c := fa.client()

	if _, err := c.AddURL(ctx, "default", "https://example.com/article"); err != nil {
		t.Fatalf("add url: %v", err)
	}

	urls, err := c.ListURLs(ctx, "default")
	if err != nil {
		t.Fatalf("list urls: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("expected 1 url, got %d", len(urls))
	}

	ack, err := c.DeleteURL(ctx, "default", urls[0].ID)
	if err != nil {
		t.Fatalf("delete url: %v", err)
	}
	if ack.Message != "URL deleted successfully" {
		t.Errorf("message = %q", ack.Message)
	}

	urls, err = c.ListURLs(ctx, "default")
	if err != nil {
		t.Fatalf("list urls: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("expected empty url list after delete, got %d", len(urls))
	}
}

func TestDeleteFile_NotFound(t *testing.T) {
	fa := newFakeAdmin(t)

	_, err := fa.client().DeleteFile(ctx, "default", "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != 404 || apiErr.Detail != "File not found" {
		t.Errorf("got %d %q", apiErr.StatusCode, apiErr.Detail)
	}
}

func TestProcessFile_FireAndForget(t *testing.T) {
	fa := newFakeAdmin(t)
	fa.files["f1"] = "doc.pdf"

	ack, err := fa.client().ProcessFile(ctx, "default", "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ack.Message != "File processing started" {
		t.Errorf("message = %q", ack.Message)
	}
	if len(fa.processed) != 1 || fa.processed[0] != "file:f1" {
		t.Errorf("processed = %v, want [file:f1]", fa.processed)
	}
}

func TestPreviewFile(t *testing.T) {
	fa := newFakeAdmin(t)
	fa.files["f1"] = "doc.txt"

	preview, err := fa.client().PreviewFile(ctx, "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preview != "contents of doc.txt" {
		t.Errorf("preview = %q", preview)
	}
}

func TestToggleUserActivation(t *testing.T) {
	fa := newFakeAdmin(t)
	fa.users[3] = &UserInfo{ID: 3, Username: "dana", IsActive: false, Scopes: []string{"user"}}

	c := fa.client()
	ack, err := c.ToggleUserActivation(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(ack.Message, "activated") {
		t.Errorf("message = %q, want activation ack", ack.Message)
	}
	if !fa.users[3].IsActive {
		t.Error("user should be active after toggle")
	}

	ack, err = c.ToggleUserActivation(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(ack.Message, "deactivated") {
		t.Errorf("message = %q, want deactivation ack", ack.Message)
	}
}

func TestDatasetQueryEncoding(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"DELETE /api/admin/files/f1": `{"message":"File deleted successfully"}`,
	})

	if _, err := ts.client().DeleteFile(ctx, "my dataset", "f1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(ts.requests[0].Path, "dataset_name=my+dataset") {
		t.Errorf("path = %q, want encoded dataset_name", ts.requests[0].Path)
	}
}
