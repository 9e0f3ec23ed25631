package capability

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
)

func TestLoadFromStorageMissingFile(t *testing.T) {
	svc := NewCookiesService(&fakePage{}, eventlog.New())
	assert.Empty(t, svc.LoadFromStorage(filepath.Join(t.TempDir(), "absent.json")))
}

func TestLoadFromStorageMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	svc := NewCookiesService(&fakePage{}, eventlog.New())
	assert.Empty(t, svc.LoadFromStorage(path))
}

func TestLoadFromStorageNoCookieRecord(t *testing.T) {
	log := eventlog.New()
	log.Append("navigation", map[string]any{"url": "https://example.com"})
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, log.WriteFile(path))

	svc := NewCookiesService(&fakePage{}, eventlog.New())
	assert.Empty(t, svc.LoadFromStorage(path))
}

func TestCookieRoundTrip(t *testing.T) {
	stored := []driver.Cookie{
		{Name: "sid", Value: "abc123", Domain: "example.com", Path: "/", HTTPOnly: true},
		{Name: "theme", Value: "dark", Domain: "example.com", Path: "/"},
	}

	// First session records its cookies and exports.
	firstLog := eventlog.New()
	first := NewCookiesService(&fakePage{cookies: stored}, firstLog)
	_, err := first.GetCookies()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, firstLog.WriteFile(path))

	// Second session recovers and replays them.
	page := &fakePage{}
	second := NewCookiesService(page, eventlog.New())
	recovered := second.LoadFromStorage(path)
	require.Equal(t, stored, recovered)

	require.NoError(t, second.SetCookies(recovered))
	current, err := second.GetCookies()
	require.NoError(t, err)
	assert.Equal(t, stored, current)
}

func TestLoadFromStorageReturnsMostRecentSet(t *testing.T) {
	log := eventlog.New()
	log.Append("cookies", []driver.Cookie{{Name: "old", Value: "1"}})
	log.Append("cookies", []driver.Cookie{{Name: "new", Value: "2"}})
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, log.WriteFile(path))

	svc := NewCookiesService(&fakePage{}, eventlog.New())
	recovered := svc.LoadFromStorage(path)
	require.Len(t, recovered, 1)
	assert.Equal(t, "new", recovered[0].Name)
}

func TestSetCookiesEmptyIsNoOp(t *testing.T) {
	page := &fakePage{}
	log := eventlog.New()
	svc := NewCookiesService(page, log)

	require.NoError(t, svc.SetCookies(nil))
	assert.Empty(t, page.cookies)
	assert.Zero(t, log.Len())
}

func TestGetCookiesAppendsSet(t *testing.T) {
	log := eventlog.New()
	svc := NewCookiesService(&fakePage{cookies: []driver.Cookie{{Name: "a", Value: "1"}}}, log)

	_, err := svc.GetCookies()
	require.NoError(t, err)
	require.Equal(t, 1, log.Len())
	assert.Equal(t, "cookies", log.Snapshot()[0].Source)
}

func TestCloseOverlayNeverAppears(t *testing.T) {
	page := &fakePage{waitErr: errors.New("timeout exceeded")}
	log := eventlog.New()
	svc := NewCookiesService(page, log)

	require.NoError(t, svc.Close("consent"))
	assert.Empty(t, page.clicked)
	assert.Zero(t, log.Len())
}

func TestCloseDismissesOverlay(t *testing.T) {
	page := &fakePage{}
	log := eventlog.New()
	svc := NewCookiesService(page, log)

	require.NoError(t, svc.Close("consent"))
	assert.Equal(t, []string{"#consent"}, page.clicked)
	require.Equal(t, 1, log.Len())
}
