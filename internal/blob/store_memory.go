package blob

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrExpired is returned by Verify for a URL past its expiry.
	ErrExpired = errors.New("presigned URL expired")
	// ErrBadSignature is returned by Verify for a tampered URL.
	ErrBadSignature = errors.New("presigned URL signature mismatch")
)

type object struct {
	content     []byte
	contentType string
}

// InMemoryStore keeps objects in memory and signs URLs with HMAC-SHA256 so
// expiry can be checked with Verify.
type InMemoryStore struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
	secret  []byte
	now     func() time.Time
}

// MemoryOption configures an InMemoryStore.
type MemoryOption func(*InMemoryStore)

// WithClock injects the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

// WithBaseURL sets the URL prefix of presigned links.
func WithBaseURL(base string) MemoryOption {
	return func(s *InMemoryStore) {
		s.baseURL = strings.TrimRight(base, "/")
	}
}

// NewInMemoryStore constructs an empty store signing with secret.
func NewInMemoryStore(secret string, opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		objects: make(map[string]object),
		baseURL: "http://localhost:8080/blobs",
		secret:  []byte(secret),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Upload(_ context.Context, locator string, content []byte, contentType string) error {
	if !validLocator(locator) {
		return ErrInvalidLocator
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[locator] = object{content: slices.Clone(content), contentType: contentType}
	return nil
}

func (s *InMemoryStore) Presign(_ context.Context, locator string, ttl time.Duration) (string, error) {
	if !validLocator(locator) {
		return "", ErrInvalidLocator
	}
	expires := s.now().Add(effectiveTTL(ttl)).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", s.sign(locator, expires))
	return fmt.Sprintf("%s/%s?%s", s.baseURL, escapeLocator(locator), q.Encode()), nil
}

// escapeLocator escapes each path segment so names with '#', '?' or spaces
// survive the round trip through a URL.
func escapeLocator(locator string) string {
	segments := strings.Split(locator, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func (s *InMemoryStore) Exists(_ context.Context, locator string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[locator]
	return ok, nil
}

func (s *InMemoryStore) Delete(_ context.Context, locator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, locator)
	return nil
}

// Content returns a copy of the stored bytes and content type.
func (s *InMemoryStore) Content(locator string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[locator]
	if !ok {
		return nil, "", false
	}
	return slices.Clone(obj.content), obj.contentType, true
}

// Verify checks a URL issued by Presign and returns its unescaped locator.
func (s *InMemoryStore) Verify(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse presigned URL: %w", err)
	}
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	locator := strings.TrimPrefix(strings.TrimPrefix(u.Path, base.Path), "/")

	expires, err := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	if err != nil {
		return "", ErrBadSignature
	}
	expected := s.sign(locator, expires)
	if !hmac.Equal([]byte(expected), []byte(u.Query().Get("signature"))) {
		return "", ErrBadSignature
	}
	if s.now().Unix() > expires {
		return "", ErrExpired
	}
	return locator, nil
}

func (s *InMemoryStore) sign(locator string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(locator))
	mac.Write([]byte{0})
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

var _ Store = (*InMemoryStore)(nil)
