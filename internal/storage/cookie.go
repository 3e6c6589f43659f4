package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ErrInvalidCookie is returned when a name or value cannot be carried in a cookie
var ErrInvalidCookie = errors.New("invalid cookie")

// CookieDocument exposes a page's cookies the way a browser document does:
// Cookie returns every visible cookie as "a=1; b=2" and SetCookie applies a
// single Set-Cookie style line.
type CookieDocument interface {
	Cookie() string
	SetCookie(line string) error
}

// CookieStore stores values as session cookies in a CookieDocument
type CookieStore struct {
	doc CookieDocument
}

// NewCookieStore creates a cookie store over doc
func NewCookieStore(doc CookieDocument) *CookieStore {
	return &CookieStore{doc: doc}
}

// Set writes a cookie with no expiry, path, domain or secure attribute
func (s *CookieStore) Set(ctx context.Context, name, value string) error {
	if name == "" || strings.ContainsAny(name, "=; \t") {
		return fmt.Errorf("%w name: %q", ErrInvalidCookie, name)
	}
	if strings.ContainsAny(value, ";\"\\") {
		return fmt.Errorf("%w value for %s", ErrInvalidCookie, name)
	}
	return s.doc.SetCookie(name + "=" + value)
}

// Get scans the document cookies for name. Everything after the first '='
// of the matching pair is the value.
func (s *CookieStore) Get(ctx context.Context, name string) (string, bool, error) {
	value, ok := lookupCookie(s.doc.Cookie(), name)
	return value, ok, nil
}

// lookupCookie returns the trimmed value of the first pair in header whose
// trimmed key equals name
func lookupCookie(header, name string) (string, bool) {
	for _, pair := range strings.Split(header, ";") {
		key, value, found := strings.Cut(pair, "=")
		if strings.TrimSpace(key) != name {
			continue
		}
		if !found {
			return "", false
		}
		return strings.TrimSpace(value), true
	}
	return "", false
}

// Document is a CookieDocument for one origin backed by a cookie jar.
// Sharing the jar with an http.Client makes cookies written here visible to
// requests and cookies set by responses visible here.
type Document struct {
	origin *url.URL
	jar    http.CookieJar
}

// NewDocument creates a document for origin with its own cookie jar
func NewDocument(origin string) (*Document, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return NewDocumentWithJar(origin, jar)
}

// NewDocumentWithJar creates a document for origin over an existing jar
func NewDocumentWithJar(origin string, jar http.CookieJar) (*Document, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parsing cookie origin: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("cookie origin must be an absolute http(s) URL: %q", origin)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return &Document{origin: u, jar: jar}, nil
}

// Jar returns the underlying cookie jar
func (d *Document) Jar() http.CookieJar {
	return d.jar
}

// Origin returns the URL the document's cookies are scoped to
func (d *Document) Origin() string {
	return d.origin.String()
}

// Cookie returns the cookies visible to the origin as "name=value" pairs
// separated by "; "
func (d *Document) Cookie() string {
	cookies := d.jar.Cookies(d.origin)
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

// SetCookie parses line as a Set-Cookie header value and stores the cookie.
// The value is kept as written, so UTF-8 text round-trips like it does
// through document.cookie.
func (d *Document) SetCookie(line string) error {
	pair, attrs, _ := strings.Cut(line, ";")
	name, value, found := strings.Cut(pair, "=")
	if !found {
		return fmt.Errorf("%w: missing '=' in %q", ErrInvalidCookie, pair)
	}

	// Attributes are parsed with a placeholder value; the raw value is set after.
	header := strings.TrimSpace(name) + "=v"
	if attrs != "" {
		header += ";" + attrs
	}
	c, err := http.ParseSetCookie(header)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCookie, err)
	}
	c.Value = strings.TrimSpace(value)

	d.jar.SetCookies(d.origin, []*http.Cookie{c})
	return nil
}
