package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if !config.Debug || !config.AppDebug {
			t.Error("expected DEBUG and APP_DEBUG to default to true")
		}
		if config.HTTPPort != 8080 {
			t.Errorf("expected HTTP_PORT 8080, got %d", config.HTTPPort)
		}
		if !config.AllowDeferreds {
			t.Error("expected ALLOW_DEFERREDS to default to true")
		}
		if config.WindowTitle != "Scandium Browser" {
			t.Errorf("expected default window title, got %q", config.WindowTitle)
		}
		if want := (Geometry{X: 100, Y: 100, Width: 800, Height: 500}); config.WindowGeometry != want {
			t.Errorf("expected geometry %v, got %v", want, config.WindowGeometry)
		}
		if !config.StaticResource.IsZero() || !config.TemplateResource.IsZero() || !config.IconResource.IsZero() {
			t.Error("expected resources to be unset by default")
		}
		if config.ThreadPoolSize != 10 {
			t.Errorf("expected THREAD_POOL_SIZE 10, got %d", config.ThreadPoolSize)
		}
		if config.DeferredTimeout != 30*time.Second {
			t.Errorf("expected DEFERRED_TIMEOUT 30s, got %v", config.DeferredTimeout)
		}
		if config.DownloadBestEffort {
			t.Error("expected DOWNLOAD_BEST_EFFORT to default to false")
		}
		if config.BaseURL() != "http://localhost:8080/" {
			t.Errorf("unexpected base url %s", config.BaseURL())
		}
	})

	t.Run("Update copies only upper-case keys", func(t *testing.T) {
		config := DefaultConfig()
		err := config.Update(map[string]any{
			"HTTP_PORT":       9090,
			"WINDOW_TITLE":    "Notes",
			"http_port":       1234,
			"Window_Title":    "ignored",
			"STATIC_RESOURCE": "./static",
			"CUSTOM_FLAG":     "kept",
			"_":               "no letters",
		})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}

		if config.HTTPPort != 9090 {
			t.Errorf("expected HTTP_PORT 9090, got %d", config.HTTPPort)
		}
		if config.WindowTitle != "Notes" {
			t.Errorf("expected title Notes, got %q", config.WindowTitle)
		}
		if config.StaticResource != PathResource("./static") {
			t.Errorf("expected path resource, got %+v", config.StaticResource)
		}
		if config.Extra["CUSTOM_FLAG"] != "kept" {
			t.Errorf("expected unknown upper-case key in Extra, got %v", config.Extra)
		}
		if _, ok := config.Extra["_"]; ok {
			t.Error("keys without letters should be ignored")
		}

		defaults := DefaultConfig()
		if config.Debug != defaults.Debug || config.WindowGeometry != defaults.WindowGeometry {
			t.Error("untouched settings should keep their defaults")
		}
	})

	t.Run("Update converts settings shapes", func(t *testing.T) {
		config := DefaultConfig()
		err := config.Update(map[string]any{
			"TEMPLATE_RESOURCE": []any{"myapp", "templates"},
			"ICON_RESOURCE":     map[string]any{"package": "myapp", "name": "icon.png"},
			"WINDOW_GEOMETRY":   map[string]any{"x": int64(1), "y": int64(2), "width": uint64(3), "h": 4.0},
			"DEFERRED_TIMEOUT":  int64(5),
			"FLASK_DEBUG":       false,
			"DEBUG":             "false",
		})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}

		if config.TemplateResource != PackageResource("myapp", "templates") {
			t.Errorf("unexpected template resource %+v", config.TemplateResource)
		}
		if config.IconResource != PackageResource("myapp", "icon.png") {
			t.Errorf("unexpected icon resource %+v", config.IconResource)
		}
		if want := (Geometry{1, 2, 3, 4}); config.WindowGeometry != want {
			t.Errorf("expected geometry %v, got %v", want, config.WindowGeometry)
		}
		if config.DeferredTimeout != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", config.DeferredTimeout)
		}
		if config.AppDebug || config.Debug {
			t.Error("expected FLASK_DEBUG alias and string bool to apply")
		}
	})

	t.Run("Update rejects mistyped values", func(t *testing.T) {
		tc := map[string]any{
			"HTTP_PORT":       "eighty",
			"WINDOW_GEOMETRY": []any{1, 2, 3},
			"STATIC_RESOURCE": []any{"only-one"},
			"DEBUG":           42,
		}
		for key, value := range tc {
			t.Run(key, func(t *testing.T) {
				err := DefaultConfig().Update(map[string]any{key: value})
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("Update applies nothing when a value is rejected", func(t *testing.T) {
		config := DefaultConfig()
		err := config.Update(map[string]any{
			"ALLOW_DEFERREDS": false,
			"CUSTOM_KEY":      "kept out",
			"HTTP_PORT":       "not-a-port",
		})
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
		if !config.AllowDeferreds {
			t.Error("ALLOW_DEFERREDS should keep its previous value")
		}
		if config.HTTPPort != 8080 {
			t.Errorf("HTTP_PORT should stay 8080, got %d", config.HTTPPort)
		}
		if _, ok := config.Extra["CUSTOM_KEY"]; ok {
			t.Error("extra settings should not be recorded")
		}
	})

	t.Run("UpdateFrom struct", func(t *testing.T) {
		type settings struct {
			HTTP_PORT     int
			WINDOW_TITLE  string
			Lowercase     string
			Static        string `toml:"STATIC_RESOURCE"`
			unexportedKey string
		}
		config := DefaultConfig()
		err := config.UpdateFrom(&settings{HTTP_PORT: 7000, WINDOW_TITLE: "From struct", Lowercase: "x", Static: "pkg:myapp/static"})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if config.HTTPPort != 7000 || config.WindowTitle != "From struct" {
			t.Errorf("struct settings not applied: %+v", config)
		}
		if config.StaticResource != PackageResource("myapp", "static") {
			t.Errorf("expected tagged field to apply, got %+v", config.StaticResource)
		}
		if _, ok := config.Extra["Lowercase"]; ok {
			t.Error("mixed-case field names should be ignored")
		}
	})

	t.Run("UpdateFrom rejects non-structs", func(t *testing.T) {
		if err := DefaultConfig().UpdateFrom(42); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		if err := config.Validate(); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected missing STATIC_RESOURCE error, got %v", err)
		}

		config.StaticResource = PathResource("./static")
		if err := config.Validate(); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected missing TEMPLATE_RESOURCE error, got %v", err)
		}

		config.TemplateResource = PathResource("./templates")
		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("Settings round trip", func(t *testing.T) {
		config := DefaultConfig()
		config.StaticResource = PackageResource("myapp", "static")
		config.WindowGeometry = Geometry{10, 20, 640, 480}
		config.DeferredTimeout = 1500 * time.Millisecond
		config.Extra = map[string]any{"CUSTOM_FLAG": "kept"}

		settings := config.Settings()
		if _, ok := settings["TEMPLATE_RESOURCE"]; ok {
			t.Error("unset resources should be left out")
		}
		if settings["STATIC_RESOURCE"] != "pkg:myapp/static" {
			t.Errorf("unexpected static resource %v", settings["STATIC_RESOURCE"])
		}

		copied := &Config{}
		if err := copied.Update(settings); err != nil {
			t.Fatalf("update from settings failed: %v", err)
		}
		if copied.StaticResource != config.StaticResource || copied.WindowGeometry != config.WindowGeometry {
			t.Errorf("resource or geometry lost: %+v", copied)
		}
		if copied.DeferredTimeout != config.DeferredTimeout || copied.HTTPPort != config.HTTPPort {
			t.Errorf("timeout or port lost: %+v", copied)
		}
		if copied.Extra["CUSTOM_FLAG"] != "kept" {
			t.Errorf("expected extra setting to survive, got %v", copied.Extra)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.HTTPPort != DefaultConfig().HTTPPort {
			t.Error("created config port doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `HTTP_PORT = 9191
STATIC_RESOURCE = "/srv/static"
TEMPLATE_RESOURCE = ["myapp", "templates"]
WINDOW_GEOMETRY = [0, 0, 1024, 768]
lower_case = "ignored"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.HTTPPort != 9191 {
			t.Errorf("expected port 9191, got %d", config.HTTPPort)
		}
		if config.StaticResource != PathResource("/srv/static") {
			t.Errorf("unexpected static resource %+v", config.StaticResource)
		}
		if config.TemplateResource != PackageResource("myapp", "templates") {
			t.Errorf("unexpected template resource %+v", config.TemplateResource)
		}
		if config.WindowGeometry.Width != 1024 {
			t.Errorf("expected width 1024, got %d", config.WindowGeometry.Width)
		}
		if len(config.Extra) != 0 {
			t.Errorf("expected no extra keys, got %v", config.Extra)
		}
	})

	t.Run("LoadConfig YAML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "settings.yaml")
		testConfig := `HTTP_PORT: 9292
WINDOW_TITLE: From YAML
ICON_RESOURCE:
  package: myapp
  name: icon.png
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.HTTPPort != 9292 || config.WindowTitle != "From YAML" {
			t.Errorf("yaml settings not applied: port=%d title=%q", config.HTTPPort, config.WindowTitle)
		}
		if config.IconResource != PackageResource("myapp", "icon.png") {
			t.Errorf("unexpected icon resource %+v", config.IconResource)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("SCANDIUM_HTTP_PORT", "7777")
		t.Setenv("SCANDIUM_WINDOW_GEOMETRY", "5,6,700,400")
		t.Setenv("SCANDIUM_STATIC_RESOURCE", "pkg:myapp/static")
		t.Setenv("SCANDIUM_DEFERRED_TIMEOUT", "2s")

		config := DefaultConfig()
		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("failed to apply env: %v", err)
		}
		if config.HTTPPort != 7777 {
			t.Errorf("expected port 7777, got %d", config.HTTPPort)
		}
		if want := (Geometry{5, 6, 700, 400}); config.WindowGeometry != want {
			t.Errorf("expected geometry %v, got %v", want, config.WindowGeometry)
		}
		if config.StaticResource != PackageResource("myapp", "static") {
			t.Errorf("unexpected static resource %+v", config.StaticResource)
		}
		if config.DeferredTimeout != 2*time.Second {
			t.Errorf("expected 2s timeout, got %v", config.DeferredTimeout)
		}
		if config.WindowTitle != "Scandium Browser" {
			t.Error("unset variables should leave settings alone")
		}
	})

	t.Run("ApplyEnv invalid value", func(t *testing.T) {
		t.Setenv("SCANDIUM_HTTP_PORT", "not-a-port")
		if err := DefaultConfig().ApplyEnv(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
