package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// pathEcho writes back the path it was asked to serve.
func pathEcho(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, name+":"+r.URL.Path)
	})
}

func TestSharedRoot(t *testing.T) {
	root := NewSharedRoot(pathEcho("app"))
	root.PutChild("/_internal/", pathEcho("child"))

	tc := []struct {
		name string
		path string
		want string
	}{
		{name: "root renders app", path: "/", want: "app:/"},
		{name: "one segment", path: "/a", want: "app:/a"},
		{name: "full path kept at depth", path: "/a/b/c", want: "app:/a/b/c"},
		{name: "trailing slash kept", path: "/a/b/", want: "app:/a/b/"},
		{name: "child consumes its segment", path: "/_internal/health", want: "child:/health"},
		{name: "child prefix only matches whole segment", path: "/_internals/x", want: "app:/_internals/x"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("GET %s = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	t.Run("mounted on a router", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(root)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/deep/er/path?q=1", strings.NewReader("x")))
		if got := rec.Body.String(); got != "app:/deep/er/path" {
			t.Errorf("router lost the path: %q", got)
		}
	})
}
