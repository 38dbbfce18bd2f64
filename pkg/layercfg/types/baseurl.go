package types

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotBaseURL is returned for URLs that cannot carry a path, such as
// "mailto:" or "data:" URLs.
var ErrNotBaseURL = errors.New("url cannot be a base")

// BaseURL is an absolute URL whose path always ends in "/", so relative
// references resolve below it rather than replacing its last segment.
type BaseURL struct {
	u url.URL
}

// ParseBaseURL parses s and adds a trailing slash to its path.
func ParseBaseURL(s string) (BaseURL, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return BaseURL{}, err
	}
	return NewBaseURL(u)
}

// NewBaseURL copies u into a BaseURL.
func NewBaseURL(u *url.URL) (BaseURL, error) {
	if u == nil {
		return BaseURL{}, ErrNotBaseURL
	}
	if u.Scheme == "" {
		return BaseURL{}, fmt.Errorf("relative url %q", u.String())
	}
	if u.Opaque != "" {
		return BaseURL{}, ErrNotBaseURL
	}
	b := BaseURL{u: *u}
	if u.User != nil {
		user := *u.User
		b.u.User = &user
	}
	if !strings.HasSuffix(b.u.Path, "/") {
		b.u.Path += "/"
		b.u.RawPath = ""
	}
	return b, nil
}

// MustParseBaseURL is like ParseBaseURL but panics on error.
func MustParseBaseURL(s string) BaseURL {
	b, err := ParseBaseURL(s)
	if err != nil {
		panic(err)
	}
	return b
}

// URL returns a copy of the underlying URL.
func (b BaseURL) URL() *url.URL {
	u := b.u
	return &u
}

// String returns the URL text.
func (b BaseURL) String() string {
	return b.u.String()
}

// IsZero reports whether b was never set.
func (b BaseURL) IsZero() bool {
	return b.u.Scheme == ""
}

// AppendPath adds path segments below b. A leading "/" on path is ignored,
// and the trailing slash of b is replaced, so
//
//	MustParseBaseURL("http://h/api/v1").AppendPath("system")
//
// is "http://h/api/v1/system".
func (b *BaseURL) AppendPath(path string) error {
	if b.IsZero() {
		return ErrNotBaseURL
	}
	base := strings.TrimSuffix(b.u.Path, "/")
	b.u.Path = base + "/" + strings.TrimPrefix(path, "/")
	b.u.RawPath = ""
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BaseURL) UnmarshalText(text []byte) error {
	parsed, err := ParseBaseURL(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (b BaseURL) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}
