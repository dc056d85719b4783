// Package blob stores document content addressed by owner-scoped locators and
// hands out time-limited download URLs. Content is never served directly.
package blob

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"
)

// DefaultPresignTTL is used when Presign is called with a non-positive ttl.
const DefaultPresignTTL = 15 * time.Minute

// ErrInvalidLocator rejects empty or malformed locators.
var ErrInvalidLocator = errors.New("invalid blob locator")

// Store is implemented by every blob backend.
type Store interface {
	// Upload stores content at locator, overwriting any previous content.
	Upload(ctx context.Context, locator string, content []byte, contentType string) error
	// Presign returns a URL granting anonymous GET access for ttl.
	Presign(ctx context.Context, locator string, ttl time.Duration) (string, error)
	Exists(ctx context.Context, locator string) (bool, error)
	Delete(ctx context.Context, locator string) error
}

// Locator namespaces a file under its owner: "ownerID/fileName". Directory
// components in fileName are dropped so one owner cannot write into another's space.
func Locator(ownerID, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = "file"
	}
	return strings.Trim(ownerID, "/") + "/" + name
}

func validLocator(locator string) bool {
	owner, name, ok := strings.Cut(locator, "/")
	return ok && owner != "" && name != ""
}

func effectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultPresignTTL
	}
	return ttl
}
