// Package session provides the browser-session lifecycle manager. A manager
// owns exactly one browser connection, one page handle, and one event log,
// moving strictly through Uninitialized, Initialized, and Closed; it never
// re-initializes.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/entrhq/pagetrace/pkg/capability"
	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
	"github.com/entrhq/pagetrace/pkg/listener"
	"github.com/entrhq/pagetrace/pkg/logging"
	"github.com/entrhq/pagetrace/pkg/storage"
)

// Lifecycle errors.
var (
	// ErrMissingInstance is returned when the page or browser is accessed
	// before Initialize has completed.
	ErrMissingInstance = errors.New("missing instance: session not initialized")

	// ErrAlreadyInitialized is returned when Initialize is called twice.
	ErrAlreadyInitialized = errors.New("session already initialized")

	// ErrClosed is returned when a closed session is initialized again.
	ErrClosed = errors.New("session closed")
)

type state int

const (
	stateUninitialized state = iota
	stateInitialized
	stateClosed
)

// Connector establishes a browser connection. The default is driver.Connect;
// alternate drivers can be swapped in with SetConnector.
type Connector func(driver.ConnectOptions) (driver.Browser, error)

// Manager owns the browser connection, the page handle, the event log, and
// the session's traffic listeners. Capability services are constructed on
// demand through Get and discarded after use.
type Manager struct {
	mu              sync.Mutex
	state           state
	connect         Connector
	browser         driver.Browser
	page            driver.Page
	log             *eventlog.Log
	listeners       []listener.Listener
	blockedPatterns []string
	logger          *logging.Logger
}

// NewManager creates an uninitialized session manager with an empty log.
func NewManager() *Manager {
	logger, _ := logging.NewLogger("session")
	return &Manager{
		connect: driver.Connect,
		log:     eventlog.New(),
		logger:  logger,
	}
}

// SetConnector replaces the browser connector. Must be called before
// Initialize.
func (m *Manager) SetConnector(connect Connector) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connect = connect
}

// SetBlockedPatterns configures the URL blocklist handed to the request
// listener at initialize time. Must be called before Initialize.
func (m *Manager) SetBlockedPatterns(patterns []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockedPatterns = patterns
}

// Initialize establishes the browser connection, opens the session's single
// page, and attaches every registered listener in registry order before
// any navigation, so no response can arrive unobserved. A remote debugging
// endpoint in opts connects; otherwise a local browser is launched.
func (m *Manager) Initialize(opts driver.ConnectOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case stateInitialized:
		return ErrAlreadyInitialized
	case stateClosed:
		return ErrClosed
	}

	m.logger.Infof("initializing session (mode: %s)", opts.Mode())

	browser, err := m.connect(opts)
	if err != nil {
		return fmt.Errorf("failed to establish browser connection: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		return fmt.Errorf("failed to open page: %w", err)
	}

	for _, name := range listener.Names() {
		l, err := listener.Get(name, m.log)
		if err != nil {
			page.Close()
			browser.Close()
			return err
		}
		if rl, ok := l.(*listener.RequestListener); ok && len(m.blockedPatterns) > 0 {
			if err := rl.SetBlockedPatterns(m.blockedPatterns); err != nil {
				page.Close()
				browser.Close()
				return err
			}
		}
		if err := l.Attach(page); err != nil {
			page.Close()
			browser.Close()
			return fmt.Errorf("failed to attach %q listener: %w", name, err)
		}
		m.listeners = append(m.listeners, l)
	}

	m.browser = browser
	m.page = page
	m.state = stateInitialized
	m.logger.Infof("session initialized with %d listeners", len(m.listeners))
	return nil
}

// Page returns the session's page handle, or ErrMissingInstance before
// Initialize completes.
func (m *Manager) Page() (driver.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page == nil {
		return nil, fmt.Errorf("page: %w", ErrMissingInstance)
	}
	return m.page, nil
}

// Browser returns the session's browser connection, or ErrMissingInstance
// before Initialize completes.
func (m *Manager) Browser() (driver.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser == nil {
		return nil, fmt.Errorf("browser: %w", ErrMissingInstance)
	}
	return m.browser, nil
}

// Log returns the session's event log.
func (m *Manager) Log() *eventlog.Log {
	return m.log
}

// Get constructs the named capability service bound to the session's page
// and log. Services are ephemeral; callers use one and discard it.
func (m *Manager) Get(name capability.Name) (capability.Service, error) {
	page, err := m.Page()
	if err != nil {
		return nil, err
	}
	return capability.Get(name, page, m.log)
}

// Listen constructs the named traffic listener bound to the session's log.
// The session's own listeners are attached during Initialize; this factory
// exists for callers that manage additional pages.
func (m *Manager) Listen(name listener.Name) (listener.Listener, error) {
	return listener.Get(name, m.log)
}

// ExportState serializes the full event log to path, all-or-nothing. A
// failed export is logged here as well as returned, since callers commonly
// treat it as non-fatal.
func (m *Manager) ExportState(path string) error {
	if err := m.log.WriteFile(path); err != nil {
		m.logger.Errorf("state export to %s failed: %v", path, err)
		return err
	}
	m.logger.Infof("exported %d records to %s", m.log.Len(), path)
	return nil
}

// ExportSQLite mirrors the full event log into a SQLite database at path,
// one row per record in log order. Like ExportState, failures are logged and
// returned for the caller to treat as non-fatal.
func (m *Manager) ExportSQLite(path string) error {
	store, err := storage.Open(path)
	if err != nil {
		m.logger.Errorf("sqlite export to %s failed: %v", path, err)
		return err
	}
	defer store.Close()

	if err := store.WriteSnapshot(m.log.Snapshot()); err != nil {
		m.logger.Errorf("sqlite export to %s failed: %v", path, err)
		return fmt.Errorf("failed to write sqlite snapshot: %w", err)
	}
	m.logger.Infof("mirrored %d records to %s", m.log.Len(), path)
	return nil
}

// Close closes the page, then the browser connection, and moves the session
// to its terminal state. Behavior of a second Close is undefined.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = stateClosed

	var errs []error
	if m.page != nil {
		if err := m.page.Close(); err != nil {
			errs = append(errs, err)
		}
		m.page = nil
	}
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			errs = append(errs, err)
		}
		m.browser = nil
	}

	m.logger.Infof("session closed")
	if len(errs) > 0 {
		return fmt.Errorf("errors closing session: %v", errs)
	}
	return nil
}
