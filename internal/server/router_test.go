package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBasicRouter(t *testing.T) {
	t.Run("Handle filters by method", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("GET /ping = %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST /ping = %d, want 405", rec.Code)
		}
		if rec.Header().Get("Allow") != "GET, HEAD" {
			t.Errorf("expected Allow header, got %q", rec.Header().Get("Allow"))
		}
	})

	t.Run("GET answers HEAD", func(t *testing.T) {
		router := NewBasicRouter()
		router.HandleFunc(http.MethodGet, "/ping", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/ping", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("HEAD /ping = %d, want 200", rec.Code)
		}
	})

	t.Run("several methods on one path", func(t *testing.T) {
		router := NewBasicRouter()
		reply := func(body string) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(body)) }
		}
		router.HandleFunc(http.MethodGet, "/item", reply("read"))
		router.HandleFunc("post", "/item", reply("created"))
		router.HandleFunc(http.MethodPost, "/item", reply("replaced"))

		tc := []struct {
			method string
			code   int
			body   string
		}{
			{method: http.MethodGet, code: http.StatusOK, body: "read"},
			{method: http.MethodPost, code: http.StatusOK, body: "replaced"},
			{method: http.MethodDelete, code: http.StatusMethodNotAllowed},
		}
		for _, tt := range tc {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, "/item", nil))
			if rec.Code != tt.code {
				t.Errorf("%s /item = %d, want %d", tt.method, rec.Code, tt.code)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("%s /item body = %q, want %q", tt.method, rec.Body.String(), tt.body)
			}
			if tt.code == http.StatusMethodNotAllowed {
				if allow := rec.Header().Get("Allow"); allow != "GET, HEAD, POST" {
					t.Errorf("Allow = %q", allow)
				}
			}
		}
	})

	t.Run("Handler mounts every route for every method", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(NewSharedRoot(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(r.Method + " " + r.URL.Path))
		})))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/deep/path", nil))
		if rec.Body.String() != "PUT /deep/path" {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		want := []string{"first", "second", "handler"}
		if len(order) != len(want) {
			t.Fatalf("order = %v, want %v", order, want)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Errorf("order = %v, want %v", order, want)
				break
			}
		}
	})
}
