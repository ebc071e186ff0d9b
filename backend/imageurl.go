package backend

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidImageURL = errors.New("invalid image URL")

// ParseImageURL validates a slide image reference.
// Only absolute http, https and file URLs are accepted; anything else
// (including strings with unescaped spaces) is reported as ErrInvalidImageURL.
func ParseImageURL(ref string) (*url.URL, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrInvalidImageURL
	}
	if strings.ContainsAny(ref, " \t\r\n") {
		return nil, fmt.Errorf("%w: %q contains whitespace", ErrInvalidImageURL, ref)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImageURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: %q has no host", ErrInvalidImageURL, ref)
		}
	case "file":
		if u.Path == "" {
			return nil, fmt.Errorf("%w: %q has no path", ErrInvalidImageURL, ref)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported scheme in %q", ErrInvalidImageURL, ref)
	}
	return u, nil
}
