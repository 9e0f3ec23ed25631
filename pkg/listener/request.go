package listener

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
)

// abortedResourceTypes are always blocked: fonts, stylesheets, and the
// engine's "other" bucket never reach the network.
var abortedResourceTypes = map[string]bool{
	"font":       true,
	"stylesheet": true,
	"other":      true,
}

// RequestListener enables request interception and appends one record per
// outgoing request. Requests whose resource type is in the abort set, or
// whose URL matches a configured blocklist pattern, are aborted; everything
// else continues unmodified.
type RequestListener struct {
	tag     string
	log     *eventlog.Log
	blocked []glob.Glob
}

// NewRequestListener creates a request listener bound to log.
func NewRequestListener(log *eventlog.Log) *RequestListener {
	return &RequestListener{tag: string(Request), log: log}
}

// SetBlockedPatterns compiles glob patterns whose matching URLs are aborted
// in addition to the fixed resource-type set.
func (l *RequestListener) SetBlockedPatterns(patterns []string) error {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid blocklist pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, g)
	}
	l.blocked = compiled
	return nil
}

// Tag returns the listener's log source name.
func (l *RequestListener) Tag() string {
	return l.tag
}

// Attach wires interception for every request on the page.
func (l *RequestListener) Attach(page driver.Page) error {
	return page.Route("**/*", func(route driver.Route) {
		request := route.Request()
		aborted := abortedResourceTypes[request.ResourceType] || l.matchesBlocklist(request.URL)

		l.log.Append(l.tag, map[string]any{
			"method":       request.Method,
			"url":          request.URL,
			"resourceType": request.ResourceType,
			"headers":      request.Headers,
			"initiator":    request.Initiator,
			"aborted":      aborted,
		})

		// Route outcomes are best effort; a request torn down by the page
		// before we answer is not an error worth surfacing.
		if aborted {
			_ = route.Abort()
			return
		}
		_ = route.Continue()
	})
}

func (l *RequestListener) matchesBlocklist(url string) bool {
	for _, g := range l.blocked {
		if g.Match(url) {
			return true
		}
	}
	return false
}
