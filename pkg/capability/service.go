// Package capability provides the pluggable browser-interaction services of
// a scrape session. Each service wraps the shared page handle and event log,
// exposes one cohesive unit of browser interaction, and appends a record of
// its own activity to the log.
//
// Services are ephemeral: the registry constructs one on demand, the caller
// invokes its operation, and the instance is discarded. All state between
// calls flows through the shared event log.
package capability

import (
	"fmt"

	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
)

// Name identifies a capability service in the registry.
type Name string

const (
	// Navigation loads URLs.
	Navigation Name = "navigation"

	// Scroll scrolls an element until its content stops growing.
	Scroll Name = "scroll"

	// Cookies replays, reads, and records session cookies, and dismisses
	// consent overlays.
	Cookies Name = "cookies"

	// Click clicks load-critical elements.
	Click Name = "click"

	// Pagination discovers and normalizes pagination links.
	Pagination Name = "pagination"

	// Metrics captures page title, URL, meta tags, and performance data.
	Metrics Name = "metrics"

	// Screenshot captures a full-page screenshot.
	Screenshot Name = "screenshot"

	// Content captures the rendered document markup.
	Content Name = "content"
)

// Service is the common surface of every capability variant. Operations live
// on the concrete types; callers obtain those via the registry and assert to
// the variant they requested.
type Service interface {
	// Tag returns the source name the service stamps on its log records.
	Tag() string
}

// Constructor builds a service bound to a page handle and event log.
type Constructor func(page driver.Page, log *eventlog.Log) Service

// registry maps every service name to its constructor. Adding a variant
// means adding a constant above and an entry here; the session manager needs
// no change.
var registry = map[Name]Constructor{
	Navigation: func(page driver.Page, log *eventlog.Log) Service { return NewNavigationService(page, log) },
	Scroll:     func(page driver.Page, log *eventlog.Log) Service { return NewScrollService(page, log) },
	Cookies:    func(page driver.Page, log *eventlog.Log) Service { return NewCookiesService(page, log) },
	Click:      func(page driver.Page, log *eventlog.Log) Service { return NewClickService(page, log) },
	Pagination: func(page driver.Page, log *eventlog.Log) Service { return NewPaginationService(page, log) },
	Metrics:    func(page driver.Page, log *eventlog.Log) Service { return NewMetricsService(page, log) },
	Screenshot: func(page driver.Page, log *eventlog.Log) Service { return NewScreenshotService(page, log) },
	Content:    func(page driver.Page, log *eventlog.Log) Service { return NewContentService(page, log) },
}

// Get constructs the named service. An unknown name fails with an error
// naming the requested key.
func Get(name Name, page driver.Page, log *eventlog.Log) (Service, error) {
	constructor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("capability %q not found", name)
	}
	return constructor(page, log), nil
}

// base carries the shared page handle, event log, and explicit source tag of
// every service variant.
type base struct {
	tag  string
	page driver.Page
	log  *eventlog.Log
}

// Tag returns the service's log source name.
func (b *base) Tag() string {
	return b.tag
}

// record appends one tagged entry to the shared log.
func (b *base) record(payload ...any) {
	b.log.Append(b.tag, payload...)
}
