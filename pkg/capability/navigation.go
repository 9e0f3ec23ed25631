package capability

import (
	"time"

	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
)

// DefaultNavigationTimeout bounds a navigation when the caller supplies none.
const DefaultNavigationTimeout = 30 * time.Second

// NavigationService loads URLs on the session's page.
type NavigationService struct {
	base
}

// NewNavigationService creates a navigation service bound to page and log.
func NewNavigationService(page driver.Page, log *eventlog.Log) *NavigationService {
	return &NavigationService{base{tag: string(Navigation), page: page, log: log}}
}

// Navigate loads url. Defaults: wait for network idle with a 30s timeout.
// The attempt is recorded before the navigation is issued, so a timeout
// still leaves a causal record in the log.
func (s *NavigationService) Navigate(url string, opts driver.GotoOptions) error {
	if opts.WaitUntil == "" {
		opts.WaitUntil = "networkidle"
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultNavigationTimeout
	}

	s.record(map[string]any{
		"url":       url,
		"waitUntil": opts.WaitUntil,
		"timeoutMs": opts.Timeout.Milliseconds(),
	})

	return s.page.Goto(url, opts)
}
