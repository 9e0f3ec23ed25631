package driver

import (
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"
)

// playwrightBrowser adapts a Playwright connection to the Browser interface.
// It owns the Playwright runtime and stops it on Close.
type playwrightBrowser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
}

// Connect establishes a browser connection per opts: a configured remote
// debugging endpoint connects over CDP, otherwise a local browser process is
// launched. Connecting takes precedence when both are configured.
func Connect(opts ConnectOptions) (Browser, error) {
	// Run Playwright quietly so its driver output does not pollute stdout.
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if opts.Mode() == ModeLaunch && opts.ExecutablePath == "" {
		// Only the bundled browser needs installing.
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var browser playwright.Browser
	switch opts.Mode() {
	case ModeConnect:
		browser, err = pw.Chromium.ConnectOverCDP(opts.RemoteDebuggingURL)
		if err != nil {
			pw.Stop()
			return nil, fmt.Errorf("failed to connect to %s: %w", opts.RemoteDebuggingURL, err)
		}
	default:
		launchOpts := playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(opts.Headless),
		}
		if opts.ExecutablePath != "" {
			launchOpts.ExecutablePath = playwright.String(opts.ExecutablePath)
		}
		browser, err = pw.Chromium.Launch(launchOpts)
		if err != nil {
			pw.Stop()
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
	}

	// A CDP-attached browser may already carry a context; reuse it so the
	// session sees the remote browser's cookies and state.
	var context playwright.BrowserContext
	if existing := browser.Contexts(); len(existing) > 0 {
		context = existing[0]
	} else {
		context, err = browser.NewContext()
		if err != nil {
			browser.Close()
			pw.Stop()
			return nil, fmt.Errorf("failed to create browser context: %w", err)
		}
	}

	return &playwrightBrowser{pw: pw, browser: browser, context: context}, nil
}

// NewPage opens one tab on the connection.
func (b *playwrightBrowser) NewPage() (Page, error) {
	page, err := b.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &playwrightPage{page: page, context: b.context}, nil
}

// Close closes the browser connection and stops the Playwright runtime.
func (b *playwrightBrowser) Close() error {
	if err := b.browser.Close(); err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	if err := b.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// playwrightPage adapts a Playwright page to the Page interface. Cookies
// live on the browser context, so the adapter keeps both handles.
type playwrightPage struct {
	page    playwright.Page
	context playwright.BrowserContext
}

func (p *playwrightPage) Goto(url string, opts GotoOptions) error {
	gotoOpts := playwright.PageGotoOptions{}
	switch opts.WaitUntil {
	case "load":
		gotoOpts.WaitUntil = playwright.WaitUntilStateLoad
	case "domcontentloaded":
		gotoOpts.WaitUntil = playwright.WaitUntilStateDomcontentloaded
	case "networkidle":
		gotoOpts.WaitUntil = playwright.WaitUntilStateNetworkidle
	}
	if opts.Timeout > 0 {
		gotoOpts.Timeout = playwright.Float(float64(opts.Timeout.Milliseconds()))
	}

	if _, err := p.page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) WaitForSelector(selector string, timeout time.Duration) error {
	waitOpts := playwright.PageWaitForSelectorOptions{
		State: playwright.WaitForSelectorStateAttached,
	}
	if timeout > 0 {
		waitOpts.Timeout = playwright.Float(float64(timeout.Milliseconds()))
	}

	if _, err := p.page.WaitForSelector(selector, waitOpts); err != nil {
		return fmt.Errorf("wait for %q failed: %w", selector, err)
	}
	return nil
}

func (p *playwrightPage) WaitForNetworkIdle(timeout time.Duration) error {
	loadOpts := playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	}
	if timeout > 0 {
		loadOpts.Timeout = playwright.Float(float64(timeout.Milliseconds()))
	}

	if err := p.page.WaitForLoadState(loadOpts); err != nil {
		return fmt.Errorf("wait for network idle failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Evaluate(expression string) (any, error) {
	result, err := p.page.Evaluate(expression)
	if err != nil {
		return nil, fmt.Errorf("evaluate failed: %w", err)
	}
	return result, nil
}

func (p *playwrightPage) Click(selector string) error {
	if err := p.page.Click(selector); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Cookies() ([]Cookie, error) {
	raw, err := p.context.Cookies()
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}

	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookie := Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
		}
		if c.SameSite != nil {
			cookie.SameSite = string(*c.SameSite)
		}
		cookies = append(cookies, cookie)
	}
	return cookies, nil
}

func (p *playwrightPage) SetCookies(cookies []Cookie) error {
	converted := make([]playwright.OptionalCookie, 0, len(cookies))
	for _, c := range cookies {
		cookie := playwright.OptionalCookie{
			Name:     c.Name,
			Value:    c.Value,
			HttpOnly: playwright.Bool(c.HTTPOnly),
			Secure:   playwright.Bool(c.Secure),
		}
		if c.Domain != "" {
			cookie.Domain = playwright.String(c.Domain)
		}
		if c.Path != "" {
			cookie.Path = playwright.String(c.Path)
		}
		if c.Expires != 0 {
			cookie.Expires = playwright.Float(c.Expires)
		}
		if attr := sameSiteAttribute(c.SameSite); attr != nil {
			cookie.SameSite = attr
		}
		converted = append(converted, cookie)
	}

	if err := p.context.AddCookies(converted); err != nil {
		return fmt.Errorf("failed to set cookies: %w", err)
	}
	return nil
}

func sameSiteAttribute(value string) *playwright.SameSiteAttribute {
	switch value {
	case "Strict":
		return playwright.SameSiteAttributeStrict
	case "Lax":
		return playwright.SameSiteAttributeLax
	case "None":
		return playwright.SameSiteAttributeNone
	}
	return nil
}

func (p *playwrightPage) Screenshot(path string) (int, error) {
	image, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return 0, fmt.Errorf("screenshot failed: %w", err)
	}
	return len(image), nil
}

func (p *playwrightPage) Content() (string, error) {
	content, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return content, nil
}

func (p *playwrightPage) Title() (string, error) {
	title, err := p.page.Title()
	if err != nil {
		return "", fmt.Errorf("failed to read page title: %w", err)
	}
	return title, nil
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Route(pattern string, handler func(Route)) error {
	return p.page.Route(pattern, func(route playwright.Route) {
		handler(&playwrightRoute{route: route})
	})
}

func (p *playwrightPage) OnResponse(handler func(Response, BodyFunc)) {
	p.page.OnResponse(func(response playwright.Response) {
		handler(convertResponse(response), response.Body)
	})
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}

// playwrightRoute adapts an intercepted request to the Route interface.
type playwrightRoute struct {
	route playwright.Route
}

func (r *playwrightRoute) Request() Request {
	req := r.route.Request()

	headers := req.Headers()
	initiator := ""
	if frame := req.Frame(); frame != nil {
		initiator = frame.URL()
	}

	return Request{
		Method:       req.Method(),
		URL:          req.URL(),
		ResourceType: req.ResourceType(),
		Headers:      headers,
		Initiator:    initiator,
	}
}

func (r *playwrightRoute) Abort() error {
	return r.route.Abort()
}

func (r *playwrightRoute) Continue() error {
	return r.route.Continue()
}

func convertResponse(response playwright.Response) Response {
	remoteAddress := ""
	if addr, err := response.ServerAddr(); err == nil && addr != nil {
		remoteAddress = fmt.Sprintf("%s:%d", addr.IpAddress, addr.Port)
	}

	return Response{
		OK:         response.Ok(),
		Status:     response.Status(),
		StatusText: response.StatusText(),
		URL:        response.URL(),
		// Playwright does not surface cache hits on the response object.
		FromCache:     false,
		RemoteAddress: remoteAddress,
		Headers:       response.Headers(),
	}
}
