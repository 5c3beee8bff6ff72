package notify

import "strings"

// markupEscaper neutralizes everything Telegram's HTML parse mode could
// misread: entities first, then angle brackets, then literal square brackets.
var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"[", `\[`,
	"]", `\]`,
)

// preRestorer re-enables exactly one tag pair after escaping: tracker text
// often carries <pre> blocks, which Telegram renders as <code>.
var preRestorer = strings.NewReplacer(
	"&lt;pre&gt;", "<code>",
	"&lt;/pre&gt;", "</code>",
)

// Escape makes arbitrary tracker text safe for Telegram HTML parse mode.
// It is total: any input, including empty, yields a valid result.
func Escape(s string) string {
	return preRestorer.Replace(markupEscaper.Replace(s))
}
