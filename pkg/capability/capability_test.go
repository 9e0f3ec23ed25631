package capability

import (
	"errors"
	"strings"
	"time"

	"github.com/entrhq/pagetrace/pkg/driver"
)

// fakePage is a scriptable driver.Page for service tests. Evaluate
// dispatches on the expression: scroll actions are counted, extent
// measurements pop from a scripted sequence, and anything else returns
// evalResult.
type fakePage struct {
	extents []int
	scrolls int

	evalResult any
	evalErr    error
	evals      []string

	waits   []string
	waitErr error

	clicked  []string
	clickErr error

	gotos   []string
	gotoErr error

	cookies    []driver.Cookie
	cookiesErr error

	content    string
	contentErr error
	title      string
	url        string

	screenshotSize int
	screenshotErr  error
	screenshots    []string

	closed bool
}

func (p *fakePage) Goto(url string, opts driver.GotoOptions) error {
	p.gotos = append(p.gotos, url)
	return p.gotoErr
}

func (p *fakePage) WaitForSelector(selector string, timeout time.Duration) error {
	p.waits = append(p.waits, selector)
	return p.waitErr
}

func (p *fakePage) WaitForNetworkIdle(timeout time.Duration) error {
	return nil
}

func (p *fakePage) Evaluate(expression string) (any, error) {
	p.evals = append(p.evals, expression)
	if p.evalErr != nil {
		return nil, p.evalErr
	}
	if strings.Contains(expression, "scrollTo") {
		p.scrolls++
		return nil, nil
	}
	if strings.Contains(expression, "scrollHeight") || strings.Contains(expression, "scrollWidth") {
		if len(p.extents) == 0 {
			return 0, errors.New("extent sequence exhausted")
		}
		extent := p.extents[0]
		p.extents = p.extents[1:]
		return extent, nil
	}
	return p.evalResult, nil
}

func (p *fakePage) Click(selector string) error {
	p.clicked = append(p.clicked, selector)
	return p.clickErr
}

func (p *fakePage) Cookies() ([]driver.Cookie, error) {
	return p.cookies, p.cookiesErr
}

func (p *fakePage) SetCookies(cookies []driver.Cookie) error {
	p.cookies = append(p.cookies, cookies...)
	return nil
}

func (p *fakePage) Screenshot(path string) (int, error) {
	p.screenshots = append(p.screenshots, path)
	return p.screenshotSize, p.screenshotErr
}

func (p *fakePage) Content() (string, error) {
	return p.content, p.contentErr
}

func (p *fakePage) Title() (string, error) {
	return p.title, nil
}

func (p *fakePage) URL() string {
	return p.url
}

func (p *fakePage) Route(pattern string, handler func(driver.Route)) error {
	return nil
}

func (p *fakePage) OnResponse(handler func(driver.Response, driver.BodyFunc)) {}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}
