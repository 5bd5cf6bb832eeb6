package shared

import (
	_ "embed"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvPrefix prefixes environment overrides, e.g. SCANDIUM_HTTP_PORT.
const EnvPrefix = "SCANDIUM"

// Config holds the shell settings. It is filled once at startup from defaults,
// a settings source and the environment, and treated as read-only afterwards.
type Config struct {
	Debug              bool          `toml:"DEBUG" split_words:"true" json:"DEBUG"`
	AppDebug           bool          `toml:"APP_DEBUG" split_words:"true" json:"APP_DEBUG"`
	HTTPPort           int           `toml:"HTTP_PORT" split_words:"true" json:"HTTP_PORT"`
	StaticResource     Resource      `toml:"STATIC_RESOURCE" split_words:"true" json:"STATIC_RESOURCE"`
	TemplateResource   Resource      `toml:"TEMPLATE_RESOURCE" split_words:"true" json:"TEMPLATE_RESOURCE"`
	AllowDeferreds     bool          `toml:"ALLOW_DEFERREDS" split_words:"true" json:"ALLOW_DEFERREDS"`
	IconResource       Resource      `toml:"ICON_RESOURCE" split_words:"true" json:"ICON_RESOURCE"`
	WindowTitle        string        `toml:"WINDOW_TITLE" split_words:"true" json:"WINDOW_TITLE"`
	WindowGeometry     Geometry      `toml:"WINDOW_GEOMETRY" split_words:"true" json:"WINDOW_GEOMETRY"`
	ThreadPoolSize     int           `toml:"THREAD_POOL_SIZE" split_words:"true" json:"THREAD_POOL_SIZE"`
	DeferredTimeout    time.Duration `toml:"DEFERRED_TIMEOUT" split_words:"true" json:"DEFERRED_TIMEOUT"`
	DownloadBestEffort bool          `toml:"DOWNLOAD_BEST_EFFORT" split_words:"true" json:"DOWNLOAD_BEST_EFFORT"`
	HistoryDatabase    string        `toml:"HISTORY_DATABASE" split_words:"true" json:"HISTORY_DATABASE"`
	LogLevel           string        `toml:"LOG_LEVEL" split_words:"true" json:"LOG_LEVEL"`

	// Extra keeps upper-case settings that have no dedicated field.
	Extra map[string]any `toml:"-" ignored:"true" json:"EXTRA,omitempty"`
}

type setter func(c *Config, v any) error

var setters = map[string]setter{
	"DEBUG":     func(c *Config, v any) (err error) { c.Debug, err = asBool(v); return },
	"APP_DEBUG": func(c *Config, v any) (err error) { c.AppDebug, err = asBool(v); return },
	// FLASK_DEBUG is the historical name of APP_DEBUG.
	"FLASK_DEBUG":          func(c *Config, v any) (err error) { c.AppDebug, err = asBool(v); return },
	"HTTP_PORT":            func(c *Config, v any) (err error) { c.HTTPPort, err = asInt(v); return },
	"STATIC_RESOURCE":      func(c *Config, v any) (err error) { c.StaticResource, err = asResource(v); return },
	"TEMPLATE_RESOURCE":    func(c *Config, v any) (err error) { c.TemplateResource, err = asResource(v); return },
	"ALLOW_DEFERREDS":      func(c *Config, v any) (err error) { c.AllowDeferreds, err = asBool(v); return },
	"ICON_RESOURCE":        func(c *Config, v any) (err error) { c.IconResource, err = asResource(v); return },
	"WINDOW_TITLE":         func(c *Config, v any) (err error) { c.WindowTitle, err = asString(v); return },
	"WINDOW_GEOMETRY":      func(c *Config, v any) (err error) { c.WindowGeometry, err = asGeometry(v); return },
	"THREAD_POOL_SIZE":     func(c *Config, v any) (err error) { c.ThreadPoolSize, err = asInt(v); return },
	"DEFERRED_TIMEOUT":     func(c *Config, v any) (err error) { c.DeferredTimeout, err = asDuration(v); return },
	"DOWNLOAD_BEST_EFFORT": func(c *Config, v any) (err error) { c.DownloadBestEffort, err = asBool(v); return },
	"HISTORY_DATABASE":     func(c *Config, v any) (err error) { c.HistoryDatabase, err = asString(v); return },
	"LOG_LEVEL":            func(c *Config, v any) (err error) { c.LogLevel, err = asString(v); return },
}

// DefaultConfig returns a Config with the defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var settings map[string]any
	if err := toml.Unmarshal(exampleConf, &settings); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config := &Config{}
	if err := config.Update(settings); err != nil {
		panic(fmt.Sprintf("failed to apply embedded default config: %v", err))
	}
	return config
}

// IsSettingName reports whether key names a setting: entirely upper case with at least one letter.
func IsSettingName(key string) bool {
	return key == strings.ToUpper(key) && key != strings.ToLower(key)
}

// Update copies every upper-case keyed entry of settings into the configuration,
// overwriting what was there. Other keys are ignored. Nothing is applied when
// any value is rejected.
func (c *Config) Update(settings map[string]any) error {
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	next := *c
	if c.Extra != nil {
		next.Extra = maps.Clone(c.Extra)
	}
	for _, key := range keys {
		if !IsSettingName(key) {
			continue
		}
		value := settings[key]
		set, ok := setters[key]
		if !ok {
			if next.Extra == nil {
				next.Extra = make(map[string]any)
			}
			next.Extra[key] = value
			continue
		}
		if err := set(&next, value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
		}
	}
	*c = next
	return nil
}

// UpdateFrom applies the upper-case named fields of a settings struct (or a map) via [Config.Update].
//
// A field's setting name is its toml tag when present, else its Go name.
func (c *Config) UpdateFrom(settings any) error {
	if m, ok := settings.(map[string]any); ok {
		return c.Update(m)
	}

	v := reflect.ValueOf(settings)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("%w: nil settings", ErrInvalidConfig)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%w: settings must be a struct or map, got %s", ErrInvalidConfig, v.Kind())
	}

	t := v.Type()
	values := make(map[string]any)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, _, _ := strings.Cut(field.Tag.Get("toml"), ","); tag != "" && tag != "-" {
			name = tag
		}
		values[name] = v.Field(i).Interface()
	}
	return c.Update(values)
}

// ApplyEnv overrides settings from SCANDIUM_<KEY> environment variables.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate reports missing required resource locators.
func (c *Config) Validate() error {
	if c.StaticResource.IsZero() {
		return fmt.Errorf("%w: STATIC_RESOURCE setting not configured", ErrMissingConfig)
	}
	if c.TemplateResource.IsZero() {
		return fmt.Errorf("%w: TEMPLATE_RESOURCE setting not configured", ErrMissingConfig)
	}
	return nil
}

// BaseURL is the address the browser window loads.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d/", c.HTTPPort)
}

// Settings returns the configuration keyed by setting name, in shapes that
// [Config.Update] reads back. Unset resources are left out.
func (c *Config) Settings() map[string]any {
	settings := make(map[string]any, len(setters)+len(c.Extra))
	for key, value := range c.Extra {
		settings[key] = value
	}
	for key, value := range map[string]any{
		"DEBUG":                c.Debug,
		"APP_DEBUG":            c.AppDebug,
		"HTTP_PORT":            c.HTTPPort,
		"ALLOW_DEFERREDS":      c.AllowDeferreds,
		"WINDOW_TITLE":         c.WindowTitle,
		"WINDOW_GEOMETRY":      []int{c.WindowGeometry.X, c.WindowGeometry.Y, c.WindowGeometry.Width, c.WindowGeometry.Height},
		"THREAD_POOL_SIZE":     c.ThreadPoolSize,
		"DEFERRED_TIMEOUT":     c.DeferredTimeout.String(),
		"DOWNLOAD_BEST_EFFORT": c.DownloadBestEffort,
		"HISTORY_DATABASE":     c.HistoryDatabase,
		"LOG_LEVEL":            c.LogLevel,
	} {
		settings[key] = value
	}
	for key, r := range map[string]Resource{
		"STATIC_RESOURCE":   c.StaticResource,
		"TEMPLATE_RESOURCE": c.TemplateResource,
		"ICON_RESOURCE":     c.IconResource,
	} {
		if !r.IsZero() {
			settings[key] = r.String()
		}
	}
	return settings
}

// LoadConfig reads a TOML or YAML settings file and applies it over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var settings map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &settings)
	default:
		err = toml.Unmarshal(data, &settings)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config := DefaultConfig()
	if err := config.Update(settings); err != nil {
		return nil, err
	}
	return config, nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Geometry is a window rectangle in screen coordinates.
type Geometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Decode parses "x,y,w,h"; it lets envconfig read WINDOW_GEOMETRY.
func (g *Geometry) Decode(value string) error {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return fmt.Errorf("geometry %q: want x,y,w,h", value)
	}
	var vals [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("geometry %q: %w", value, err)
		}
		vals[i] = n
	}
	*g = Geometry{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	return nil
}

func (g Geometry) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", g.X, g.Y, g.Width, g.Height)
}

func asBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strconv.ParseBool(b)
	}
	return false, fmt.Errorf("want bool, got %T", v)
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case uint64:
		if n > math.MaxInt32 {
			return 0, fmt.Errorf("%d out of range", n)
		}
		return int(n), nil
	case uint32:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("want integer, got %v", n)
		}
		return int(n), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	}
	return 0, fmt.Errorf("want integer, got %T", v)
}

func asString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("want string, got %T", v)
}

// asDuration accepts Go duration strings or a number of seconds.
func asDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		return time.ParseDuration(d)
	}
	secs, err := asInt(v)
	if err != nil {
		return 0, fmt.Errorf("want duration, got %T", v)
	}
	return time.Duration(secs) * time.Second, nil
}

func asGeometry(v any) (Geometry, error) {
	switch g := v.(type) {
	case Geometry:
		return g, nil
	case string:
		var geom Geometry
		err := geom.Decode(g)
		return geom, err
	case map[string]any:
		var geom Geometry
		for _, f := range []struct {
			dst  *int
			keys []string
		}{
			{&geom.X, []string{"x"}},
			{&geom.Y, []string{"y"}},
			{&geom.Width, []string{"w", "width"}},
			{&geom.Height, []string{"h", "height"}},
		} {
			for _, k := range f.keys {
				if raw, ok := g[k]; ok {
					n, err := asInt(raw)
					if err != nil {
						return Geometry{}, fmt.Errorf("geometry %s: %w", k, err)
					}
					*f.dst = n
				}
			}
		}
		return geom, nil
	}

	items, ok := toSlice(v)
	if !ok || len(items) != 4 {
		return Geometry{}, fmt.Errorf("want [x, y, w, h], got %v", v)
	}
	var vals [4]int
	for i, item := range items {
		n, err := asInt(item)
		if err != nil {
			return Geometry{}, fmt.Errorf("geometry[%d]: %w", i, err)
		}
		vals[i] = n
	}
	return Geometry{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

func asResource(v any) (Resource, error) {
	switch r := v.(type) {
	case nil:
		return Resource{}, nil
	case Resource:
		return r, nil
	case string:
		return ParseResource(r), nil
	case map[string]any:
		path, _ := r["path"].(string)
		pkg, _ := r["package"].(string)
		name, _ := r["name"].(string)
		if path != "" {
			return PathResource(path), nil
		}
		if pkg == "" {
			return Resource{}, fmt.Errorf("resource table needs path or package")
		}
		return PackageResource(pkg, name), nil
	}

	items, ok := toSlice(v)
	if !ok || len(items) != 2 {
		return Resource{}, fmt.Errorf("want path or [package, name], got %v", v)
	}
	pkg, ok1 := items[0].(string)
	name, ok2 := items[1].(string)
	if !ok1 || !ok2 {
		return Resource{}, fmt.Errorf("package resource must be two strings, got %v", v)
	}
	return PackageResource(pkg, name), nil
}

// toSlice flattens any slice or array value into []any.
func toSlice(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
