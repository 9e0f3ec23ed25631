// Package trace drives one full scrape session: initialize, replay cookies,
// navigate, dismiss the consent overlay, discover pagination, collect
// metrics, screenshot, scroll, capture content and cookies, export, close.
package trace

import (
	"github.com/entrhq/pagetrace/pkg/capability"
	"github.com/entrhq/pagetrace/pkg/config"
	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
	"github.com/entrhq/pagetrace/pkg/logging"
	"github.com/entrhq/pagetrace/pkg/session"
)

// Run executes one scrape session described by cfg and returns the
// accumulated event log. Fatal-class failures (connection, navigation, a
// missing click or scroll target) abort the run; export failures are logged
// and do not. The caller decides logging and exit behavior.
func Run(cfg config.Config) (*eventlog.Log, error) {
	return run(cfg, session.NewManager())
}

// run is Run with an injectable session manager.
func run(cfg config.Config, mgr *session.Manager) (*eventlog.Log, error) {
	logger, _ := logging.NewLogger("trace")
	defer logger.Close()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mgr.SetBlockedPatterns(cfg.BlockedURLPatterns)
	if err := mgr.Initialize(driver.ConnectOptions{
		RemoteDebuggingURL: cfg.RemoteDebuggingURL,
		ExecutablePath:     cfg.BrowserPath,
		Headless:           cfg.Headless,
	}); err != nil {
		return nil, err
	}
	defer mgr.Close()

	// Cookie replay from a prior run's snapshot. Load degrades to an empty
	// set on any failure; replaying an empty set is a no-op.
	if cfg.CookieSnapshot != "" {
		svc, err := cookiesService(mgr)
		if err != nil {
			return nil, err
		}
		stored := svc.LoadFromStorage(cfg.CookieSnapshot)
		logger.Infof("recovered %d cookies from %s", len(stored), cfg.CookieSnapshot)
		if err := svc.SetCookies(stored); err != nil {
			return nil, err
		}
	}

	nav, err := mgr.Get(capability.Navigation)
	if err != nil {
		return nil, err
	}
	logger.Infof("navigating to %s", cfg.TargetURL)
	if err := nav.(*capability.NavigationService).Navigate(cfg.TargetURL, driver.GotoOptions{}); err != nil {
		return nil, err
	}

	if cfg.ConsentOverlayID != "" {
		svc, err := cookiesService(mgr)
		if err != nil {
			return nil, err
		}
		if err := svc.Close(cfg.ConsentOverlayID); err != nil {
			return nil, err
		}
	}

	pagination, err := mgr.Get(capability.Pagination)
	if err != nil {
		return nil, err
	}
	discovery := pagination.(*capability.PaginationService)
	discovery.SetContainer(cfg.PaginationContainer)
	discovery.SetLinkSuffix(cfg.LinkSuffix)
	result, err := discovery.Discover()
	if err != nil {
		return nil, err
	}
	logger.Infof("discovered %d pagination controls, %d links", len(result.Pages), len(result.Links))

	metrics, err := mgr.Get(capability.Metrics)
	if err != nil {
		return nil, err
	}
	if _, err := metrics.(*capability.MetricsService).GetResults(); err != nil {
		return nil, err
	}

	if cfg.ScreenshotPath != "" {
		shot, err := mgr.Get(capability.Screenshot)
		if err != nil {
			return nil, err
		}
		if err := shot.(*capability.ScreenshotService).Screenshot(cfg.ScreenshotPath); err != nil {
			return nil, err
		}
	}

	if cfg.ScrollSelector != "" {
		scroll, err := mgr.Get(capability.Scroll)
		if err != nil {
			return nil, err
		}
		direction := capability.Direction(cfg.ScrollDirection)
		if err := scroll.(*capability.ScrollService).Scroll(cfg.ScrollSelector, direction); err != nil {
			return nil, err
		}
	}

	content, err := mgr.Get(capability.Content)
	if err != nil {
		return nil, err
	}
	if _, err := content.(*capability.ContentService).GetContent(); err != nil {
		return nil, err
	}

	// Record the session's final cookie set so the next run can replay it.
	svc, err := cookiesService(mgr)
	if err != nil {
		return nil, err
	}
	if _, err := svc.GetCookies(); err != nil {
		return nil, err
	}

	// Export failures are reported, never fatal: the log is still returned
	// to the caller.
	if err := mgr.ExportState(cfg.ExportPath); err != nil {
		logger.Errorf("snapshot export failed: %v", err)
	}
	if cfg.SQLitePath != "" {
		if err := mgr.ExportSQLite(cfg.SQLitePath); err != nil {
			logger.Errorf("sqlite export failed: %v", err)
		}
	}

	return mgr.Log(), nil
}

func cookiesService(mgr *session.Manager) (*capability.CookiesService, error) {
	svc, err := mgr.Get(capability.Cookies)
	if err != nil {
		return nil, err
	}
	return svc.(*capability.CookiesService), nil
}
