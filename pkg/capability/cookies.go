package capability

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
)

// DefaultOverlayTimeout bounds how long overlay dismissal waits for the
// overlay element to appear.
const DefaultOverlayTimeout = 5 * time.Second

// CookiesService replays cookies from a prior session's snapshot, records
// the current cookie set, and dismisses consent overlays.
type CookiesService struct {
	base
	overlayTimeout time.Duration
}

// NewCookiesService creates a cookies service bound to page and log.
func NewCookiesService(page driver.Page, log *eventlog.Log) *CookiesService {
	return &CookiesService{
		base:           base{tag: string(Cookies), page: page, log: log},
		overlayTimeout: DefaultOverlayTimeout,
	}
}

// LoadFromStorage reads a previously exported snapshot and returns the most
// recent cookies-sourced record containing a cookie set. Any failure (file
// missing, malformed snapshot, no matching record) degrades to an empty set.
func (s *CookiesService) LoadFromStorage(path string) []driver.Cookie {
	records, err := eventlog.ReadSnapshot(path)
	if err != nil {
		return nil
	}

	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Source != s.tag {
			continue
		}
		for _, payload := range records[i].Payload {
			if cookies := decodeCookies(payload); len(cookies) > 0 {
				return cookies
			}
		}
	}
	return nil
}

// SetCookies adds cookies to the session. Empty input is a no-op.
func (s *CookiesService) SetCookies(cookies []driver.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	if err := s.page.SetCookies(cookies); err != nil {
		return fmt.Errorf("cookie replay: %w", err)
	}
	s.record(map[string]any{"replayed": len(cookies)})
	return nil
}

// GetCookies reads the current session cookies and appends them to the log.
// The appended cookie set is what LoadFromStorage recovers from a snapshot.
func (s *CookiesService) GetCookies() ([]driver.Cookie, error) {
	cookies, err := s.page.Cookies()
	if err != nil {
		return nil, err
	}
	s.record(cookies)
	return cookies, nil
}

// Close dismisses a consent overlay by element ID, best effort. It waits up
// to the overlay timeout for the element to appear and silently does nothing
// if it never does.
func (s *CookiesService) Close(elementID string) error {
	selector := "#" + elementID
	if err := s.page.WaitForSelector(selector, s.overlayTimeout); err != nil {
		// Overlay never appeared; nothing to dismiss.
		return nil
	}
	if err := s.page.Click(selector); err != nil {
		return fmt.Errorf("overlay dismiss %q: %w", elementID, err)
	}
	s.record(map[string]any{"dismissed": elementID})
	return nil
}

// decodeCookies extracts a cookie set from one payload value. In-process
// payloads carry the typed slice; snapshot payloads come back as decoded
// JSON and are re-marshaled into the typed form.
func decodeCookies(payload any) []driver.Cookie {
	if cookies, ok := payload.([]driver.Cookie); ok {
		return cookies
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	var cookies []driver.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil
	}
	for _, c := range cookies {
		if c.Name == "" {
			return nil
		}
	}
	return cookies
}
