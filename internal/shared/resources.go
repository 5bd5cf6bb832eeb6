package shared

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
)

// packagePrefix marks a packaged resource written as a single string, e.g. "pkg:myapp/static".
const packagePrefix = "pkg:"

// Resource locates a bundled asset: either a filesystem path, or a name inside
// a registered package namespace.
type Resource struct {
	Path    string
	Package string
	Name    string
}

// PathResource locates a file or directory on disk.
func PathResource(p string) Resource {
	return Resource{Path: p}
}

// PackageResource locates name inside the package registered as pkg.
func PackageResource(pkg, name string) Resource {
	return Resource{Package: pkg, Name: name}
}

// ParseResource reads "pkg:<package>/<name>" as a packaged resource and anything else as a path.
func ParseResource(s string) Resource {
	if rest, ok := strings.CutPrefix(s, packagePrefix); ok {
		pkg, name, _ := strings.Cut(rest, "/")
		return PackageResource(pkg, name)
	}
	if s == "" {
		return Resource{}
	}
	return PathResource(s)
}

// Decode lets envconfig read resource locators.
func (r *Resource) Decode(value string) error {
	*r = ParseResource(value)
	return nil
}

func (r Resource) IsZero() bool    { return r.Path == "" && r.Package == "" }
func (r Resource) IsPackage() bool { return r.Package != "" }

func (r Resource) String() string {
	if r.IsPackage() {
		return packagePrefix + r.Package + "/" + r.Name
	}
	return r.Path
}

func (r Resource) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(r.String())
}

var (
	packagesMu sync.RWMutex
	packages   = map[string]fs.FS{}
)

// RegisterPackage makes fsys available to packaged resources under name.
// Registering the same name again replaces the previous filesystem.
func RegisterPackage(name string, fsys fs.FS) {
	packagesMu.Lock()
	defer packagesMu.Unlock()
	packages[name] = fsys
}

func lookupPackage(name string) (fs.FS, error) {
	packagesMu.RLock()
	defer packagesMu.RUnlock()
	fsys, ok := packages[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPackage, name)
	}
	return fsys, nil
}

// ReadResource returns the bytes of the file r points at.
func ReadResource(r Resource) ([]byte, error) {
	if r.IsZero() {
		return nil, fmt.Errorf("%w: empty resource", ErrInvalidInput)
	}
	if !r.IsPackage() {
		data, err := os.ReadFile(r.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", r.Path, err)
		}
		return data, nil
	}

	fsys, err := lookupPackage(r.Package)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(fsys, cleanName(r.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r, err)
	}
	return data, nil
}

// ResourceFS returns a filesystem rooted at the directory r points at.
func ResourceFS(r Resource) (fs.FS, error) {
	if r.IsZero() {
		return nil, fmt.Errorf("%w: empty resource", ErrInvalidInput)
	}
	if !r.IsPackage() {
		info, err := os.Stat(r.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", r.Path, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidInput, r.Path)
		}
		return os.DirFS(r.Path), nil
	}

	fsys, err := lookupPackage(r.Package)
	if err != nil {
		return nil, err
	}
	name := cleanName(r.Name)
	if name == "." {
		return fsys, nil
	}
	sub, err := fs.Sub(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", r, err)
	}
	return sub, nil
}

func cleanName(name string) string {
	name = path.Clean("/" + name)
	if name == "/" {
		return "."
	}
	return strings.TrimPrefix(name, "/")
}
