package journal

// Mood is one of the fixed set of mood tags, each with a display glyph.
type Mood struct {
	Key   string
	Glyph string
}

// Moods is the fixed mood set, in display order.
var Moods = []Mood{
	{"Loved", "💗"},
	{"Grateful", "🙏"},
	{"Joyful", "😊"},
	{"Peaceful", "🍃"},
	{"Excited", "✨"},
	{"Nostalgic", "🕰️"},
	{"Missing", "🌙"},
	{"Proud", "⭐"},
}

// MoodGlyph returns the glyph for a mood key, and whether the key is known.
func MoodGlyph(key string) (string, bool) {
	for _, m := range Moods {
		if m.Key == key {
			return m.Glyph, true
		}
	}
	return "", false
}
