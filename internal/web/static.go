package web

import (
	"bytes"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// staticFiles serves regular files from fsys ahead of the routes. Directories
// and missing files fall through.
func staticFiles(fsys fs.FS) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}
		name := strings.TrimPrefix(path.Clean("/"+c.Request.URL.Path), "/")
		if name == "" || !fs.ValidPath(name) {
			c.Next()
			return
		}

		f, err := fsys.Open(name)
		if err != nil {
			c.Next()
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			c.Next()
			return
		}

		content, ok := f.(io.ReadSeeker)
		if !ok {
			data, err := io.ReadAll(f)
			if err != nil {
				c.Next()
				return
			}
			content = bytes.NewReader(data)
		}

		if ctype := contentType(info.Name(), content); ctype != "" {
			c.Header("Content-Type", ctype)
		}
		http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), content)
		c.Abort()
	}
}

// contentType uses the extension when the platform knows it, else sniffs the
// content. content is rewound either way.
func contentType(name string, content io.ReadSeeker) string {
	if ctype := mime.TypeByExtension(path.Ext(name)); ctype != "" {
		return ctype
	}
	detected, err := mimetype.DetectReader(content)
	if _, serr := content.Seek(0, io.SeekStart); serr != nil || err != nil {
		return ""
	}
	return detected.String()
}
