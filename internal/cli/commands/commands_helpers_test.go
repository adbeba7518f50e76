package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"JourFlow/internal/cli/model"
	"JourFlow/internal/config"
)

// withStdoutCapture перехватывает вывод команд на время fn.
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// testConfig — конфиг CLI с временным каталогом данных.
func testConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		ServerURL:         serverURL,
		ClientDBPath:      dir,
		ImagesDir:         dir,
		RequestTimeout:    2 * time.Second,
		UploadConcurrency: 2,
		AssetHost:         "cloudinary",
		LogLevel:          "error",
	}
}

// fakeServer — минимальный сервер API дневника в памяти.
type fakeServer struct {
	mu      sync.Mutex
	posts   map[string]model.Post
	images  map[string]model.Image
	calls   []string
	failAdd bool
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()
	fs := &fakeServer{posts: map[string]model.Post{}, images: map[string]model.Image{}}
	ts := httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(ts.Close)
	return fs, ts
}

func (f *fakeServer) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	switch {
	case r.URL.Path == "/api/auth/google-signin":
		_ = json.NewEncoder(w).Encode(map[string]string{
			"user_id": "u1", "token": "jwt-u1", "refresh_token": "r1",
			"user_name": "Alice", "email": "alice@example.com",
		})
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/posts/"):
		snap := struct {
			Posts  []model.Post  `json:"posts"`
			Images []model.Image `json:"images"`
		}{}
		for _, p := range f.posts {
			snap.Posts = append(snap.Posts, p)
		}
		for _, im := range f.images {
			snap.Images = append(snap.Images, im)
		}
		_ = json.NewEncoder(w).Encode(snap)
	case r.URL.Path == "/api/posts/add-post" || r.URL.Path == "/api/posts/update":
		if f.failAdd {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		var in []model.Post
		_ = json.NewDecoder(r.Body).Decode(&in)
		for _, p := range in {
			p.SyncStatus = model.Synced
			f.posts[p.ID] = p
		}
		_, _ = w.Write([]byte("success"))
	case r.URL.Path == "/api/posts/delete":
		var in []model.Post
		_ = json.NewDecoder(r.Body).Decode(&in)
		for _, p := range in {
			delete(f.posts, p.ID)
		}
		_, _ = w.Write([]byte("success"))
	case r.URL.Path == "/api/posts/add-image":
		var in []model.Image
		_ = json.NewDecoder(r.Body).Decode(&in)
		for _, im := range in {
			f.images[im.ID] = im
		}
		_, _ = w.Write([]byte("success"))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeServer) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}
