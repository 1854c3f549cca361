package content

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans administrator supplied HTML before it is stored. Rich
// bodies keep user generated content markup; short fields keep text only.
type Sanitizer struct {
	rich  *bluemonday.Policy
	plain *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	rich := bluemonday.UGCPolicy()
	rich.AddTargetBlankToFullyQualifiedLinks(true)

	return &Sanitizer{
		rich:  rich,
		plain: bluemonday.StrictPolicy(),
	}
}

// HTML sanitizes a rich text body such as an article or event description.
func (s *Sanitizer) HTML(html string) string {
	return strings.TrimSpace(s.rich.Sanitize(html))
}

// Text strips every tag, leaving plain text.
func (s *Sanitizer) Text(text string) string {
	return strings.TrimSpace(s.plain.Sanitize(text))
}
