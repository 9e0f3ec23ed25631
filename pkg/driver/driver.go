// Package driver defines the narrow boundary to the browser-automation
// engine. The rest of the module talks only to the Page and Browser
// interfaces here; the Playwright-backed implementation lives alongside
// them. Keeping the boundary small is what lets the capability and listener
// packages be tested against fakes.
package driver

import (
	"time"
)

// GotoOptions configures a navigation.
type GotoOptions struct {
	// WaitUntil specifies when to consider navigation complete:
	// "load", "domcontentloaded", or "networkidle".
	WaitUntil string

	// Timeout bounds the navigation. Zero means the caller's default.
	Timeout time.Duration
}

// Cookie is one browser cookie. The JSON tags match the shape the driver
// reports, so cookie sets survive a snapshot round trip.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain,omitempty"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Request describes one outgoing network request observed on a page.
type Request struct {
	Method       string
	URL          string
	ResourceType string
	Headers      map[string]string
	Initiator    string
}

// Route is the interception handle for one in-flight request. Exactly one of
// Abort or Continue must be called per route.
type Route interface {
	Request() Request
	Abort() error
	Continue() error
}

// Response describes one network response observed on a page.
type Response struct {
	OK            bool
	Status        int
	StatusText    string
	URL           string
	RemoteAddress string
	FromCache     bool
	Headers       map[string]string
}

// BodyFunc lazily reads a response body. Reading may fail when the body is
// non-text, already consumed, or the stream has closed.
type BodyFunc func() ([]byte, error)

// Page is the live handle to one open browser tab. Every operation the core
// needs from the automation engine appears here and nowhere else.
type Page interface {
	// Goto navigates to url and blocks until the WaitUntil condition holds
	// or the timeout elapses.
	Goto(url string, opts GotoOptions) error

	// WaitForSelector blocks until an element matching selector is attached
	// or the timeout elapses.
	WaitForSelector(selector string, timeout time.Duration) error

	// WaitForNetworkIdle blocks until the page reports network idle.
	WaitForNetworkIdle(timeout time.Duration) error

	// Evaluate runs a JavaScript expression in the page context and returns
	// its JSON-decoded result.
	Evaluate(expression string) (any, error)

	// Click clicks the first element matching selector.
	Click(selector string) error

	// Cookies returns the session's current cookies.
	Cookies() ([]Cookie, error)

	// SetCookies adds cookies to the session.
	SetCookies(cookies []Cookie) error

	// Screenshot captures a full-page screenshot to path and returns the
	// image size in bytes.
	Screenshot(path string) (int, error)

	// Content returns the full rendered document markup.
	Content() (string, error)

	// Title returns the document title.
	Title() (string, error)

	// URL returns the page's current URL.
	URL() string

	// Route subscribes an interception handler for requests matching the
	// engine's URL pattern syntax. The handler decides abort or continue.
	Route(pattern string, handler func(Route)) error

	// OnResponse subscribes a handler fired for every response the page
	// receives, together with a lazy body reader.
	OnResponse(handler func(Response, BodyFunc))

	// Close closes the tab.
	Close() error
}

// Browser is one browser connection, local or remote.
type Browser interface {
	// NewPage opens one tab on the connection.
	NewPage() (Page, error)

	// Close tears down the connection and any engine-side resources.
	Close() error
}
