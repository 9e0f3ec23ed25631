package capability

import (
	"fmt"
	"time"

	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
)

const defaultClickWaitTimeout = 30 * time.Second

// ClickService clicks load-critical elements. Unlike overlay dismissal, a
// missing click target aborts the run: the intent record is appended first,
// then failure to find or click the selector propagates to the caller.
type ClickService struct {
	base
	waitTimeout time.Duration
}

// NewClickService creates a click service bound to page and log.
func NewClickService(page driver.Page, log *eventlog.Log) *ClickService {
	return &ClickService{
		base:        base{tag: string(Click), page: page, log: log},
		waitTimeout: defaultClickWaitTimeout,
	}
}

// Click waits for selector to appear, then clicks it. The intent is recorded
// before waiting so a failed click still leaves a causal record.
func (s *ClickService) Click(selector string) error {
	s.record(map[string]any{"selector": selector})

	if err := s.page.WaitForSelector(selector, s.waitTimeout); err != nil {
		return fmt.Errorf("click target %q: %w", selector, err)
	}
	if err := s.page.Click(selector); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}
