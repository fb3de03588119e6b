package filter

import (
	"context"
	"strings"
)

// glyphs maps the emoji names the templates use to their glyphs. Unknown
// names translate to the empty string rather than an error so a stale
// template never breaks rendering.
var glyphs = map[string]string{
	"smile":       "ðŸ˜„",
	"grin":        "ðŸ˜",
	"wink":        "ðŸ˜‰",
	"heart":       "â¤ï¸",
	"star":        "â­",
	"fire":        "ðŸ”¥",
	"tada":        "ðŸŽ‰",
	"rocket":      "ðŸš€",
	"thumbsup":    "ðŸ‘",
	"thumbsdown":  "ðŸ‘Ž",
	"clap":        "ðŸ‘",
	"eyes":        "ðŸ‘€",
	"thinking":    "ðŸ¤”",
	"warning":     "âš ï¸",
	"check":       "âœ…",
	"x":           "âŒ",
	"wave":        "ðŸ‘‹",
	"sparkles":    "âœ¨",
	"bulb":        "ðŸ’¡",
	"lock":        "ðŸ”’",
	"unlock":      "ðŸ”“",
	"mag":         "ðŸ”",
	"bell":        "ðŸ””",
	"zap":         "âš¡",
	"sunny":       "â˜€ï¸",
	"cloud":       "â˜ï¸",
	"umbrella":    "â˜”",
	"coffee":      "â˜•",
	"pizza":       "ðŸ•",
	"beer":        "ðŸº",
	"cat":         "ðŸ±",
	"dog":         "ðŸ¶",
	"lizard":      "ðŸ¦Ž",
	"wind_face":   "ðŸŒ¬ï¸",
	"point_right": "ðŸ‘‰",
	"point_left":  "ðŸ‘ˆ",
	"muscle":      "ðŸ’ª",
	"pray":        "ðŸ™",
	"shrug":       "ðŸ¤·",
	"facepalm":    "ðŸ¤¦",
}

// Emoji translates an emoji name into its glyph.
type Emoji struct{}

// NewEmoji returns the "emoji" filter.
func NewEmoji() Filter {
	return Emoji{}
}

func (Emoji) Name() string {
	return "emoji"
}

// Apply returns the glyph for the given name. Surrounding colons are
// tolerated ("smile" and ":smile:" are equivalent). Unrecognized names
// return the empty string, never an error.
func (Emoji) Apply(_ context.Context, input string) string {
	name := strings.Trim(strings.TrimSpace(input), ":")
	return glyphs[name]
}
