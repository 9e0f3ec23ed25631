package capability

import (
	"github.com/entrhq/pagetrace/pkg/driver"
	"github.com/entrhq/pagetrace/pkg/eventlog"
)

// ScreenshotService captures full-page screenshots. The log record carries
// the destination path and byte size, never the image bytes.
type ScreenshotService struct {
	base
}

// NewScreenshotService creates a screenshot service bound to page and log.
func NewScreenshotService(page driver.Page, log *eventlog.Log) *ScreenshotService {
	return &ScreenshotService{base{tag: string(Screenshot), page: page, log: log}}
}

// Screenshot captures a full-page screenshot to path.
func (s *ScreenshotService) Screenshot(path string) error {
	size, err := s.page.Screenshot(path)
	if err != nil {
		return err
	}
	s.record(map[string]any{"path": path, "byteSize": size})
	return nil
}
