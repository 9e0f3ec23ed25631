package capability

import (
	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
)

// ContentService captures the full rendered document markup.
type ContentService struct {
	base
}

// NewContentService creates a content service bound to page and log.
func NewContentService(page driver.Page, log *eventlog.Log) *ContentService {
	return &ContentService{base{tag: string(Content), page: page, log: log}}
}

// GetContent reads the rendered markup and appends it verbatim.
func (s *ContentService) GetContent() (string, error) {
	html, err := s.page.Content()
	if err != nil {
		return "", err
	}
	s.record(html)
	return html, nil
}
