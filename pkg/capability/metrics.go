package capability

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
)

// performanceExpression reads the page's navigation-timing entry, falling
// back to the legacy timing object on older engines.
const performanceExpression = `JSON.parse(JSON.stringify(
	performance.getEntriesByType("navigation")[0] || performance.timing
))`

// MetricsService captures page metadata and performance metrics as one
// composite record: title, current URL, meta tag name/content pairs, and
// the browser's navigation timing.
type MetricsService struct {
	base
}

// NewMetricsService creates a metrics service bound to page and log.
func NewMetricsService(page driver.Page, log *eventlog.Log) *MetricsService {
	return &MetricsService{base{tag: string(Metrics), page: page, log: log}}
}

// GetResults collects the composite metrics record and appends it.
func (s *MetricsService) GetResults() (map[string]any, error) {
	title, err := s.page.Title()
	if err != nil {
		return nil, err
	}

	html, err := s.page.Content()
	if err != nil {
		return nil, err
	}
	meta, err := metaTags(html)
	if err != nil {
		return nil, err
	}

	performance, err := s.page.Evaluate(performanceExpression)
	if err != nil {
		return nil, fmt.Errorf("performance metrics: %w", err)
	}

	result := map[string]any{
		"title":   title,
		"url":     s.page.URL(),
		"meta":    meta,
		"metrics": performance,
	}
	s.record(result)
	return result, nil
}

// metaTags parses the rendered markup and returns meta name/content pairs.
// Entries without a name attribute are dropped.
func metaTags(html string) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page markup: %w", err)
	}

	meta := make(map[string]string)
	doc.Find("meta").Each(func(_ int, selection *goquery.Selection) {
		name, _ := selection.Attr("name")
		if name == "" {
			return
		}
		content, _ := selection.Attr("content")
		meta[name] = content
	})
	return meta, nil
}
