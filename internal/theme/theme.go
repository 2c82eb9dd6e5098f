package theme

import "errors"

// ErrUnknown is returned when a theme id is not one of the built-in themes.
var ErrUnknown = errors.New("unknown theme")

type ID string

const (
	Cyberpunk    ID = "cyberpunk"
	Gradient     ID = "gradient"
	Terminal     ID = "terminal"
	Bubble       ID = "bubble"
	Professional ID = "professional"
)

// Default is the theme new sessions start with.
const Default = Cyberpunk

// Theme is the fixed style record the page is rendered with.
type Theme struct {
	ID    ID
	Label string

	Primary    string
	Secondary  string
	Background string
	CardBG     string
	Text       string
	UserBubble string
	BotBubble  string
	Glow       string
}

var themes = []Theme{
	{
		ID:         Cyberpunk,
		Label:      "🌌 Cyberpunk",
		Primary:    "#00f0ff",
		Secondary:  "#ff00ff",
		Background: "linear-gradient(135deg, #0a0e27 0%, #1a1a2e 50%, #16213e 100%)",
		CardBG:     "rgba(26, 26, 46, 0.8)",
		Text:       "#e0e0ff",
		UserBubble: "linear-gradient(135deg, #00f0ff 0%, #ff00ff 100%)",
		BotBubble:  "rgba(26, 26, 46, 0.9)",
		Glow:       "0 0 20px rgba(0, 240, 255, 0.5)",
	},
	{
		ID:         Gradient,
		Label:      "🌈 Gradient Dream",
		Primary:    "#667eea",
		Secondary:  "#764ba2",
		Background: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
		CardBG:     "rgba(255, 255, 255, 0.95)",
		Text:       "#2d3748",
		UserBubble: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
		BotBubble:  "rgba(255, 255, 255, 0.95)",
		Glow:       "0 4px 20px rgba(102, 126, 234, 0.3)",
	},
	{
		ID:         Terminal,
		Label:      "💻 Retro Terminal",
		Primary:    "#00ff00",
		Secondary:  "#00aa00",
		Background: "linear-gradient(135deg, #000000 0%, #0a0a0a 100%)",
		CardBG:     "rgba(0, 20, 0, 0.9)",
		Text:       "#00ff00",
		UserBubble: "linear-gradient(135deg, #00ff00 0%, #00aa00 100%)",
		BotBubble:  "rgba(0, 20, 0, 0.9)",
		Glow:       "0 0 10px rgba(0, 255, 0, 0.5)",
	},
	{
		ID:         Bubble,
		Label:      "💬 Bubble Chat",
		Primary:    "#25D366",
		Secondary:  "#128C7E",
		Background: "linear-gradient(135deg, #ece5dd 0%, #d9d9d9 100%)",
		CardBG:     "rgba(255, 255, 255, 0.95)",
		Text:       "#303030",
		UserBubble: "linear-gradient(135deg, #25D366 0%, #128C7E 100%)",
		BotBubble:  "rgba(255, 255, 255, 0.95)",
		Glow:       "0 2px 10px rgba(0, 0, 0, 0.1)",
	},
	{
		ID:         Professional,
		Label:      "📊 Professional",
		Primary:    "#3b82f6",
		Secondary:  "#8b5cf6",
		Background: "linear-gradient(135deg, #1e293b 0%, #334155 100%)",
		CardBG:     "rgba(30, 41, 59, 0.9)",
		Text:       "#e2e8f0",
		UserBubble: "linear-gradient(135deg, #3b82f6 0%, #8b5cf6 100%)",
		BotBubble:  "rgba(30, 41, 59, 0.9)",
		Glow:       "0 4px 15px rgba(59, 130, 246, 0.2)",
	},
}

// All returns the built-in themes in display order.
func All() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// Lookup returns the theme with the given id.
func Lookup(id ID) (Theme, error) {
	for _, t := range themes {
		if t.ID == id {
			return t, nil
		}
	}
	return Theme{}, ErrUnknown
}

func Valid(id ID) bool {
	_, err := Lookup(id)
	return err == nil
}

// MustLookup is Lookup for ids already known to be valid.
func MustLookup(id ID) Theme {
	t, err := Lookup(id)
	if err != nil {
		panic("theme: " + string(id) + ": " + err.Error())
	}
	return t
}
