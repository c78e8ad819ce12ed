package docbuilder

import (
	"time"

	"github.com/ortam/docbuilder/internal/dateutil"
)

// FormatDate renders t as the language writes short dates:
// Hebrew "D.M.YYYY", English "M/D/YYYY".
func FormatDate(t time.Time, lang Language) string {
	return dateutil.FormatLocale(t, string(lang.Canonical()))
}
