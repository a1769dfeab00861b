package kernel

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pantrypal/pantrypal/pkg/response"
)

// spaHandler serves files from dir and falls back to dir/index.html for
// unknown GET paths so client-side routes survive a reload.
func spaHandler(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			response.NotFound(w)
			return
		}

		clean := path.Clean("/" + r.URL.Path)
		full := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}

		if _, err := os.Stat(index); err != nil {
			response.NotFound(w)
			return
		}
		http.ServeFile(w, r, index)
	}
}
