package assets

import "strings"

// Template names used by the document pipeline.
const (
	ContentTemplateName = "content" // generated document body
	ShellTemplateName   = "shell"   // printable page wrapping a body
)

// DefaultStyleName is the theme used when a template identifier is unknown.
const DefaultStyleName = "classic"

// DefaultTemplateID is assigned to documents created without a theme choice.
const DefaultTemplateID = "A"

// ThemeStyles maps document template identifiers to stylesheet names.
// B and C are reserved in the document model but share the classic theme.
var ThemeStyles = map[string]string{
	"A": "classic",
	"B": "classic",
	"C": "classic",
}

// StyleForTemplate returns the stylesheet name for a template identifier.
func StyleForTemplate(templateID string) string {
	if name, ok := ThemeStyles[strings.ToUpper(strings.TrimSpace(templateID))]; ok {
		return name
	}
	return DefaultStyleName
}
