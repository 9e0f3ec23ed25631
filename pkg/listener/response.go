package listener

import (
	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
)

// ResponseListener appends one record per response the page receives. The
// body is decoded best effort: a body that cannot be read (already
// consumed, non-text, stream closed) is recorded as nil rather than failing
// the listener.
type ResponseListener struct {
	tag string
	log *eventlog.Log
}

// NewResponseListener creates a response listener bound to log.
func NewResponseListener(log *eventlog.Log) *ResponseListener {
	return &ResponseListener{tag: string(Response), log: log}
}

// Tag returns the listener's log source name.
func (l *ResponseListener) Tag() string {
	return l.tag
}

// Attach subscribes to every response on the page.
func (l *ResponseListener) Attach(page driver.Page) error {
	page.OnResponse(func(response driver.Response, body driver.BodyFunc) {
		var content any
		if body != nil {
			if data, err := body(); err == nil {
				content = string(data)
			}
		}

		l.log.Append(l.tag, map[string]any{
			"ok":            response.OK,
			"status":        response.Status,
			"statusText":    response.StatusText,
			"url":           response.URL,
			"remoteAddress": response.RemoteAddress,
			"fromCache":     response.FromCache,
			"headers":       response.Headers,
			"content":       content,
		})
	})
	return nil
}
