package formatting

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rivo/tview"
)

func writeIndentedLines(builder *strings.Builder, text string, indent string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		builder.WriteString(indent)
		builder.WriteString(tview.Escape(line))
		builder.WriteByte('\n')
	}
}

// FormatTimestamp renders massCode's millisecond epoch timestamps.
func FormatTimestamp(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05 MST")
}

func MakeHelpText(text string) *tview.TextView {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetTextAlign(tview.AlignCenter).
		SetText(text)
	view.SetBorder(true).SetTitle("Controls")
	return view
}

func Slugify(input string) string {
	var builder strings.Builder
	for _, r := range input {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			builder.WriteRune(unicode.ToLower(r))
		case r == '-', r == '_':
			builder.WriteRune(r)
		case unicode.IsSpace(r):
			builder.WriteRune('-')
		}
	}
	return strings.Trim(builder.String(), "-_")
}

func GenerateJSONFilename(title string, now time.Time) string {
	slug := Slugify(title)
	if slug == "" {
		slug = "masscode_record"
	}
	return fmt.Sprintf("%s_%s.json", slug, now.Format("20060102_150405"))
}
