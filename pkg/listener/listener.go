// Package listener provides the long-lived traffic listeners of a scrape
// session. Unlike capability services, a listener is constructed once per
// session, attaches to the page's network events at initialize time, and
// appends a record per observed request or response for the session's
// lifetime.
package listener

import (
	"fmt"

	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
)

// Name identifies a traffic listener in the registry.
type Name string

const (
	// Request intercepts outgoing requests, blocking noise resource types.
	Request Name = "request"

	// Response records every response, body included where readable.
	Response Name = "response"
)

// Listener observes one class of network traffic on a page. Attach wires a
// permanent subscription and must be called exactly once per session, before
// the first navigation, so no response can arrive unobserved.
type Listener interface {
	// Tag returns the source name stamped on the listener's log records.
	Tag() string

	// Attach subscribes the listener to the page's network events.
	Attach(page driver.Page) error
}

// Constructor builds a listener bound to the session's event log.
type Constructor func(log *eventlog.Log) Listener

// registry maps every listener name to its constructor. attachOrder fixes
// the order the session manager attaches them in.
var registry = map[Name]Constructor{
	Request:  func(log *eventlog.Log) Listener { return NewRequestListener(log) },
	Response: func(log *eventlog.Log) Listener { return NewResponseListener(log) },
}

var attachOrder = []Name{Request, Response}

// Get constructs the named listener. An unknown name fails with an error
// naming the requested key.
func Get(name Name, log *eventlog.Log) (Listener, error) {
	constructor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("listener %q not found", name)
	}
	return constructor(log), nil
}

// Names returns every registered listener name in attach order.
func Names() []Name {
	names := make([]Name, len(attachOrder))
	copy(names, attachOrder)
	return names
}
