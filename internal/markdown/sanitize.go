package markdown

import "strings"

// detackify maps decorative symbols to plain geometric equivalents. The
// table is non-overlapping, so a single replacer pass is order independent.
var detackify = strings.NewReplacer(
	"✅", "◆",
	"☑️", "◆",
	"✔️", "◆",
	"❌", "◇",
	"❎", "◇",
	"⛔", "◇",
	"🚫", "◇",
	"⚠️", "△",
	"🔴", "●",
	"🟢", "●",
	"🟡", "●",
	"📝", "»",
	"📌", "»",
	"💡", "◊",
	"🎯", "›",
	"🚀", "→",
)

// Detackify replaces decorative symbols in content with plain equivalents.
// It is applied to ingested content only, never to directly authored blocks.
func Detackify(content string) string {
	return detackify.Replace(content)
}
