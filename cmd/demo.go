package main

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/desertthunder/scandium/internal/deferred"
	"github.com/desertthunder/scandium/internal/harness"
	"github.com/desertthunder/scandium/internal/shared"
	"github.com/desertthunder/scandium/internal/web"
	"github.com/gin-gonic/gin"
)

// demoPackage is the resource package the built-in site is registered under.
const demoPackage = "scandium"

//go:embed demo
var demoFiles embed.FS

func init() {
	sub, err := fs.Sub(demoFiles, "demo")
	if err != nil {
		panic(err)
	}
	shared.RegisterPackage(demoPackage, sub)
}

// useDemo points unset resources at the built-in site and reports whether it did.
// A project that sets either resource is left alone.
func useDemo(c *shared.Config) bool {
	if !c.StaticResource.IsZero() || !c.TemplateResource.IsZero() {
		return false
	}
	c.StaticResource = shared.PackageResource(demoPackage, "static")
	c.TemplateResource = shared.PackageResource(demoPackage, "templates")
	return true
}

func demoRoutes(h *harness.Harness) error {
	routes := []struct {
		method, path string
		view         web.View
	}{
		{http.MethodGet, "/", demoIndex(h)},
		{http.MethodGet, "/clock", demoClock},
	}
	for _, r := range routes {
		if err := h.Route(r.method, r.path, r.view); err != nil {
			return err
		}
	}
	return nil
}

func demoIndex(h *harness.Harness) web.View {
	return func(c *gin.Context) (any, error) {
		app, err := h.App()
		if err != nil {
			return nil, err
		}
		return web.Template{Name: "index.html", Data: gin.H{
			"Title":     h.Config().WindowTitle,
			"Port":      h.Port(),
			"Deferreds": app.Deferreds(),
		}}, nil
	}
}

// demoClock answers with a deferred result settled off the request goroutine.
func demoClock(c *gin.Context) (any, error) {
	return deferred.Go(c.Request.Context(), func(ctx context.Context) (any, error) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		now := time.Now()
		return gin.H{"time": now.Format(time.RFC3339), "unix": now.Unix()}, nil
	}), nil
}
