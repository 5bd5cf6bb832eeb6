package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"github.com/desertthunder/scandium/internal/shared"
)

// loadTemplates parses every .html file under r, named by its slash path relative to r.
func loadTemplates(r shared.Resource, funcs template.FuncMap) (*template.Template, error) {
	fsys, err := shared.ResourceFS(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open template resource: %w", err)
	}

	root := template.New("").Funcs(funcs)
	err = fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(name) != ".html" {
			return nil
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		if _, err := root.New(name).Parse(string(data)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return root, nil
}
