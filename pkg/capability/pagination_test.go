package capability

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagetrace/pkg/eventlog"
)

func paginationFixture() map[string]any {
	anchors := make([]any, 0, 7)
	for n := 1; n <= 5; n++ {
		anchors = append(anchors, map[string]any{
			"label":    strconv.Itoa(n),
			"href":     "https://example.com/list?Page=" + strconv.Itoa(n),
			"position": float64(n - 1),
		})
	}
	// Non-numeric label and blank URL both get filtered.
	anchors = append(anchors,
		map[string]any{"label": "next", "href": "https://example.com/list?Page=6", "position": float64(5)},
		map[string]any{"label": "7", "href": "", "position": float64(6)},
	)

	return map[string]any{
		"anchors": anchors,
		"candidates": []any{
			"https://example.com/a.html",
			"https://example.com/a.html",
			"https://example.com/b.html",
			"https://example.com/styles.css",
		},
	}
}

func TestDiscoverNormalizesPaginationControls(t *testing.T) {
	page := &fakePage{evalResult: paginationFixture()}
	log := eventlog.New()
	svc := NewPaginationService(page, log)

	result, err := svc.Discover()
	require.NoError(t, err)

	require.Len(t, result.Pages, 5)
	for i, link := range result.Pages {
		assert.Equal(t, i+1, link.Page)
		assert.Equal(t, i, link.Position)
		// Query keys are lowercased.
		assert.Equal(t, strconv.Itoa(i+1), link.QueryParams["page"])
	}
}

func TestDiscoverDeduplicatesSuffixLinks(t *testing.T) {
	page := &fakePage{evalResult: paginationFixture()}
	log := eventlog.New()
	svc := NewPaginationService(page, log)

	result, err := svc.Discover()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/a.html",
		"https://example.com/b.html",
	}, result.Links)
}

func TestDiscoverAppendsOneRecord(t *testing.T) {
	page := &fakePage{evalResult: paginationFixture()}
	log := eventlog.New()
	svc := NewPaginationService(page, log)

	_, err := svc.Discover()
	require.NoError(t, err)

	require.Equal(t, 1, log.Len())
	record := log.Snapshot()[0]
	assert.Equal(t, "pagination", record.Source)
	assert.IsType(t, &DiscoverResult{}, record.Payload[0])
}

func TestDiscoverCustomSuffix(t *testing.T) {
	page := &fakePage{evalResult: map[string]any{
		"anchors": []any{},
		"candidates": []any{
			"https://example.com/p?id=1",
			"https://example.com/page.aspx",
		},
	}}
	log := eventlog.New()
	svc := NewPaginationService(page, log)
	svc.SetLinkSuffix(".aspx")

	result, err := svc.Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/page.aspx"}, result.Links)
}

func TestDiscoverEmptyPage(t *testing.T) {
	page := &fakePage{evalResult: map[string]any{"anchors": []any{}, "candidates": []any{}}}
	log := eventlog.New()
	svc := NewPaginationService(page, log)

	result, err := svc.Discover()
	require.NoError(t, err)
	assert.Empty(t, result.Pages)
	assert.Empty(t, result.Links)
}

func TestQueryParamsLowercasesKeys(t *testing.T) {
	params := queryParams("https://example.com/list?Page=3&SortOrder=desc")
	assert.Equal(t, "3", params["page"])
	assert.Equal(t, "desc", params["sortorder"])
}

func TestQueryParamsMalformedURL(t *testing.T) {
	assert.Empty(t, queryParams("://not-a-url"))
}
