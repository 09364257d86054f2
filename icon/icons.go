package icon

// Icon identifies one UI symbol in the global registry.
type Icon int

const (
	Success Icon = iota + 1
	Fail
	Progress
	Lua
)

// icons is the global registry mapping each Icon to its per-variant glyphs.
var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "[ok]",
		kaomoji: "(￣▽￣)ノ",
		squares: "🟩",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "[err]",
		kaomoji: "(╯°□°)╯",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "[...]",
		kaomoji: "(￣ω￣;)",
		squares: "🟨",
	},
	Lua: {
		emoji:   "🌙",
		nerd:    "",
		plain:   "[lua]",
		kaomoji: "(=^･ω･^=)",
		squares: "🟦",
	},
}
