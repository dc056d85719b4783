package blob

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"strconv"
)

// DownloadHandler serves presigned URLs issued by an InMemoryStore, standing
// in for the object store's own endpoint in single-node deployments.
func DownloadHandler(store *InMemoryStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locator, err := store.Verify(r.URL.RequestURI())
		switch {
		case errors.Is(err, ErrExpired):
			http.Error(w, "download link expired", http.StatusGone)
			return
		case err != nil:
			http.Error(w, "invalid download link", http.StatusForbidden)
			return
		}

		content, contentType, ok := store.Content(locator)
		if !ok {
			http.NotFound(w, r)
			return
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(locator)}))
		_, _ = w.Write(content) //nolint:errcheck // client went away
	})
}
