// Package dom defines the page and element abstraction the extraction core runs
// against. The browser package implements it over playwright; domtest implements
// it over an in-memory HTML document.
package dom

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by WaitFor when nothing matched before the timeout.
var ErrNotFound = errors.New("element not found")

// Element is a handle to one node on the page.
type Element interface {
	IsVisible() (bool, error)
	IsEnabled() (bool, error)
	IsEditable() (bool, error)
	Click() error
	Fill(value string) error
	// Press sends a key such as "Enter" to the focused element.
	Press(key string) error
	ScrollIntoView() error
	Text() (string, error)
	Attr(name string) (string, error)
}

// Page is a single browsing context. A nil scope means the whole document.
type Page interface {
	QueryAll(ctx context.Context, selector string, scope Element) ([]Element, error)
	WaitFor(ctx context.Context, selector string, timeout time.Duration, scope Element) (Element, error)
	Evaluate(ctx context.Context, script string) (any, error)
	Navigate(ctx context.Context, url string) error
	Content(ctx context.Context) (string, error)
	URL() string
}
