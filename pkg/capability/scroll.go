package capability

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
)

// Direction selects the scroll axis.
type Direction string

const (
	// DirectionVertical scrolls down.
	DirectionVertical Direction = "vertical"

	// DirectionHorizontal scrolls right.
	DirectionHorizontal Direction = "horizontal"

	// DirectionBoth scrolls both axes. Extent is still measured vertically
	// only, a long-standing quirk kept for compatibility.
	DirectionBoth Direction = "both"
)

// Default pacing for the convergence loop.
const (
	defaultScrollSettleDelay = 500 * time.Millisecond
	defaultScrollJitterMin   = 1 * time.Second
	defaultScrollJitterMax   = 2 * time.Second
	defaultScrollWaitTimeout = 30 * time.Second
)

// ScrollService scrolls an element until its scroll extent stops growing.
type ScrollService struct {
	base

	settleDelay time.Duration
	jitterMin   time.Duration
	jitterMax   time.Duration
	waitTimeout time.Duration

	// sleep is swapped out by tests to keep the convergence loop fast.
	sleep func(time.Duration)
}

// NewScrollService creates a scroll service bound to page and log.
func NewScrollService(page driver.Page, log *eventlog.Log) *ScrollService {
	return &ScrollService{
		base:        base{tag: string(Scroll), page: page, log: log},
		settleDelay: defaultScrollSettleDelay,
		jitterMin:   defaultScrollJitterMin,
		jitterMax:   defaultScrollJitterMax,
		waitTimeout: defaultScrollWaitTimeout,
		sleep:       time.Sleep,
	}
}

// Scroll smooth-scrolls the element matching selector along direction until
// two consecutive extent measurements are equal. Each round scrolls to the
// current extent, yields a short settle delay per axis, waits for the page
// to report network idle, re-measures, and sleeps a randomized 1-2s delay
// before the next round to avoid lockstep polling against the target site.
//
// Equal consecutive measurements are the only termination condition. There
// is no iteration cap, so an element whose extent keeps growing will keep
// the loop running.
func (s *ScrollService) Scroll(selector string, direction Direction) error {
	if err := s.page.WaitForSelector(selector, s.waitTimeout); err != nil {
		return fmt.Errorf("scroll target %q: %w", selector, err)
	}

	previous, err := s.measure(selector, direction)
	if err != nil {
		return err
	}

	scrolls := 0
	for {
		if err := s.scrollOnce(selector, direction); err != nil {
			return err
		}
		scrolls++

		if err := s.page.WaitForNetworkIdle(s.waitTimeout); err != nil {
			return fmt.Errorf("scroll settle: %w", err)
		}

		current, err := s.measure(selector, direction)
		if err != nil {
			return err
		}
		if current == previous {
			break
		}
		previous = current

		s.sleep(s.jitter())
	}

	s.record(map[string]any{
		"selector":  selector,
		"direction": string(direction),
		"extent":    previous,
		"scrolls":   scrolls,
	})
	return nil
}

// measure reads the element's scroll extent along the requested axis:
// scrollWidth for horizontal, scrollHeight otherwise.
func (s *ScrollService) measure(selector string, direction Direction) (int, error) {
	property := "scrollHeight"
	if direction == DirectionHorizontal {
		property = "scrollWidth"
	}

	expression := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return el ? el.%s : 0; })()`,
		selector, property,
	)
	result, err := s.page.Evaluate(expression)
	if err != nil {
		return 0, fmt.Errorf("measure %q: %w", selector, err)
	}
	return toInt(result), nil
}

// scrollOnce smooth-scrolls the element to its current extent on each
// requested axis, with a settle delay after each axis.
func (s *ScrollService) scrollOnce(selector string, direction Direction) error {
	if direction == DirectionHorizontal || direction == DirectionBoth {
		expression := fmt.Sprintf(
			`(() => { const el = document.querySelector(%q); if (el) el.scrollTo({left: el.scrollWidth, behavior: "smooth"}); })()`,
			selector,
		)
		if _, err := s.page.Evaluate(expression); err != nil {
			return fmt.Errorf("scroll %q: %w", selector, err)
		}
		s.sleep(s.settleDelay)
	}
	if direction == DirectionVertical || direction == DirectionBoth {
		expression := fmt.Sprintf(
			`(() => { const el = document.querySelector(%q); if (el) el.scrollTo({top: el.scrollHeight, behavior: "smooth"}); })()`,
			selector,
		)
		if _, err := s.page.Evaluate(expression); err != nil {
			return fmt.Errorf("scroll %q: %w", selector, err)
		}
		s.sleep(s.settleDelay)
	}
	return nil
}

func (s *ScrollService) jitter() time.Duration {
	if s.jitterMax <= s.jitterMin {
		return s.jitterMin
	}
	return s.jitterMin + time.Duration(rand.Int63n(int64(s.jitterMax-s.jitterMin)))
}

// toInt normalizes the driver's JSON-decoded numbers.
func toInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case float32:
		return int(v)
	}
	return 0
}
