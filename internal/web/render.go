package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Template names a template from the template resource and its data.
type Template struct {
	Name string
	Data any
}

// Redirect answers with a 302 to the location.
type Redirect string

func (a *App) render(c *gin.Context, result any) error {
	switch v := result.(type) {
	case nil:
		c.Status(http.StatusNoContent)
	case Template:
		return a.renderTemplate(c, v)
	case *Template:
		return a.renderTemplate(c, *v)
	case Redirect:
		c.Redirect(http.StatusFound, string(v))
	case string:
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(v))
	case []byte:
		c.Data(http.StatusOK, "application/octet-stream", v)
	default:
		c.JSON(http.StatusOK, v)
	}
	return nil
}

// renderTemplate executes into a buffer so a template error still yields a clean 500.
func (a *App) renderTemplate(c *gin.Context, t Template) error {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, t.Name, t.Data); err != nil {
		return fmt.Errorf("failed to render %s: %w", t.Name, err)
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	return nil
}
