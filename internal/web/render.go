package web

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/chasedut/crystaline/internal/message"
	"github.com/chasedut/crystaline/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("index.html").Funcs(template.FuncMap{
		"lines":  lines,
		"avatar": avatar,
	}).ParseFS(templateFS, "templates/*.html"),
)

// PageData is everything the chat page is rendered from.
type PageData struct {
	BotName     string
	Theme       theme.Theme
	Themes      []theme.Theme
	Style       StyleVars
	Turns       []TurnView
	Suggestions []Suggestion

	MessageCount int
	UserTurns    int
	KeyActive    bool
	OperatorKey  bool
	CanExport    bool
	Notice       string
}

// TurnView is one bubble on the page.
type TurnView struct {
	Role    message.Role
	Content string
}

func (t TurnView) IsUser() bool {
	return t.Role == message.User
}

// StyleVars carries the theme colours into the stylesheet. The values come
// from the built-in theme table, never from a request.
type StyleVars struct {
	Primary    template.CSS
	Secondary  template.CSS
	Background template.CSS
	CardBG     template.CSS
	Text       template.CSS
	UserBubble template.CSS
	BotBubble  template.CSS
	Glow       template.CSS
}

func styleFor(t theme.Theme) StyleVars {
	return StyleVars{
		Primary:    template.CSS(t.Primary),
		Secondary:  template.CSS(t.Secondary),
		Background: template.CSS(t.Background),
		CardBG:     template.CSS(t.CardBG),
		Text:       template.CSS(t.Text),
		UserBubble: template.CSS(t.UserBubble),
		BotBubble:  template.CSS(t.BotBubble),
		Glow:       template.CSS(t.Glow),
	}
}

func turnViews(tr message.Transcript) []TurnView {
	views := make([]TurnView, 0, len(tr))
	for _, turn := range tr {
		views = append(views, TurnView{Role: turn.Role(), Content: turn.Content()})
	}
	return views
}

// RenderPage writes the full chat page.
func RenderPage(w io.Writer, data PageData) error {
	return pageTemplate.ExecuteTemplate(w, "index.html", data)
}

// lines splits content so the template can join the pieces with <br> while
// still escaping each piece.
func lines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(content, "\n")
}

func avatar(role message.Role) string {
	if role == message.User {
		return "👤"
	}
	return "🤖"
}
