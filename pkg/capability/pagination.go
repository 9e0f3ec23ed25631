package capability

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
)

// Defaults for the discovery selectors. Both are site-specific and usually
// overridden from configuration.
const (
	DefaultPaginationContainer = ".pagination"
	DefaultLinkSuffix          = ".html"
)

// PageLink is one normalized pagination control: its numeric page label, the
// target URL, the anchor's original document position, and the URL's query
// string decomposed into a case-normalized key/value mapping.
type PageLink struct {
	Page        int               `json:"page"`
	Href        string            `json:"href"`
	Position    int               `json:"position"`
	QueryParams map[string]string `json:"queryParams"`
}

// DiscoverResult combines both discovery passes: the de-duplicated
// same-origin suffix-matching links and the normalized pagination controls.
type DiscoverResult struct {
	Links []string   `json:"links"`
	Pages []PageLink `json:"pages"`
}

// PaginationService discovers and normalizes pagination links.
type PaginationService struct {
	base
	container  string
	linkSuffix string
}

// NewPaginationService creates a pagination service bound to page and log.
func NewPaginationService(page driver.Page, log *eventlog.Log) *PaginationService {
	return &PaginationService{
		base:       base{tag: string(Pagination), page: page, log: log},
		container:  DefaultPaginationContainer,
		linkSuffix: DefaultLinkSuffix,
	}
}

// SetContainer overrides the pagination container selector.
func (s *PaginationService) SetContainer(selector string) {
	if selector != "" {
		s.container = selector
	}
}

// SetLinkSuffix overrides the URL suffix the link pass matches.
func (s *PaginationService) SetLinkSuffix(suffix string) {
	if suffix != "" {
		s.linkSuffix = suffix
	}
}

// Discover collects the pagination-control anchors scoped to the container
// and every same-origin anchor on the page, normalizes both sets, and
// appends the combined result to the log.
//
// Controls with a non-numeric or negative page label, or a blank URL, are
// dropped. Query parameter keys are lowercased. Same-origin links are kept
// only when they match the configured suffix, de-duplicated by full URL.
func (s *PaginationService) Discover() (*DiscoverResult, error) {
	raw, err := s.page.Evaluate(s.extractExpression())
	if err != nil {
		return nil, fmt.Errorf("pagination extract: %w", err)
	}

	extract, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("pagination extract: unexpected result type %T", raw)
	}

	result := &DiscoverResult{
		Links: s.collectLinks(anySlice(extract["candidates"])),
		Pages: collectPages(anySlice(extract["anchors"])),
	}

	s.record(result)
	return result, nil
}

// extractExpression builds the page-context extractor. Same-origin filtering
// happens in the page, where location.origin is authoritative; everything
// else is normalized on this side of the boundary.
func (s *PaginationService) extractExpression() string {
	return fmt.Sprintf(`(() => {
	const anchors = Array.from(document.querySelectorAll(%q + " a")).map((a, i) => ({
		label: (a.textContent || "").trim(),
		href: a.href || "",
		position: i,
	}));
	const candidates = Array.from(document.querySelectorAll("a[href]"))
		.map(a => a.href || "")
		.filter(href => href.startsWith(location.origin));
	return {anchors, candidates};
})()`, s.container)
}

// collectLinks de-duplicates the same-origin candidates and keeps those
// matching the configured suffix. Set semantics: uniqueness by full URL,
// insertion order irrelevant; output is sorted for determinism.
func (s *PaginationService) collectLinks(candidates []any) []string {
	seen := make(map[string]struct{})
	for _, candidate := range candidates {
		href, _ := candidate.(string)
		if href == "" || !strings.HasSuffix(href, s.linkSuffix) {
			continue
		}
		seen[href] = struct{}{}
	}

	links := make([]string, 0, len(seen))
	for href := range seen {
		links = append(links, href)
	}
	sort.Strings(links)
	return links
}

// collectPages normalizes the raw pagination-control anchors.
func collectPages(anchors []any) []PageLink {
	pages := make([]PageLink, 0, len(anchors))
	for _, anchor := range anchors {
		fields, ok := anchor.(map[string]any)
		if !ok {
			continue
		}

		label, _ := fields["label"].(string)
		href, _ := fields["href"].(string)

		page, err := strconv.Atoi(strings.TrimSpace(label))
		if err != nil {
			page = -1
		}
		if page < 0 || href == "" {
			continue
		}

		pages = append(pages, PageLink{
			Page:        page,
			Href:        href,
			Position:    toInt(fields["position"]),
			QueryParams: queryParams(href),
		})
	}

	// The position pass never reads its second element and so cannot
	// reorder anything; kept to match the extractor's historical behavior.
	sort.SliceStable(pages, func(i, _ int) bool { return pages[i].Position < 0 })

	return pages
}

// queryParams decomposes a URL's query string into a mapping with lowercased
// keys. Repeated keys keep their first value.
func queryParams(href string) map[string]string {
	params := make(map[string]string)
	parsed, err := url.Parse(href)
	if err != nil {
		return params
	}
	for key, values := range parsed.Query() {
		if len(values) == 0 {
			continue
		}
		key = strings.ToLower(key)
		if _, exists := params[key]; !exists {
			params[key] = values[0]
		}
	}
	return params
}

func anySlice(value any) []any {
	slice, _ := value.([]any)
	return slice
}
