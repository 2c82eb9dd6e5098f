package web

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/chasedut/crystaline/internal/message"
	"github.com/chasedut/crystaline/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderTurnsDoc(t *testing.T, turns []TurnView) (*goquery.Selection, string) {
	t.Helper()
	current := theme.MustLookup(theme.Default)
	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, PageData{
		BotName: "Crystaline",
		Theme:   current,
		Themes:  theme.All(),
		Style:   styleFor(current),
		Turns:   turns,
	}))
	html := buf.String()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Find("#messages"), html
}

func TestRenderPageTurnsEscapesContent(t *testing.T) {
	t.Parallel()

	doc, html := renderTurnsDoc(t, []TurnView{
		{Role: message.User, Content: "<script>alert('x')</script>\nsecond line"},
	})

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Equal(t, 0, doc.Find("script").Length())

	content := doc.Find(".message-content")
	require.Equal(t, 1, content.Length())
	assert.Equal(t, 1, content.Find("br").Length())
	assert.Equal(t, "<script>alert('x')</script>second line", content.Text())
}

func TestRenderPageTurnsNewlines(t *testing.T) {
	t.Parallel()

	doc, _ := renderTurnsDoc(t, []TurnView{
		{Role: message.Assistant, Content: "a\nb\r\nc\n"},
	})
	assert.Equal(t, 3, doc.Find(".message-content br").Length())
}

func TestRenderPageTurnsLayoutByRole(t *testing.T) {
	t.Parallel()

	doc, _ := renderTurnsDoc(t, []TurnView{
		{Role: message.User, Content: "question"},
		{Role: message.Assistant, Content: "answer"},
	})

	rows := doc.Find(".message-row")
	require.Equal(t, 2, rows.Length())

	user := rows.Eq(0)
	assert.True(t, user.HasClass("user"))
	assert.True(t, user.Children().Last().HasClass("message-avatar"), "user avatar sits after the bubble")
	assert.Equal(t, "👤", strings.TrimSpace(user.Find(".message-avatar").Text()))

	bot := rows.Eq(1)
	assert.True(t, bot.HasClass("assistant"))
	assert.True(t, bot.Children().First().HasClass("message-avatar"), "assistant avatar sits before the bubble")
	assert.Equal(t, "🤖", strings.TrimSpace(bot.Find(".message-avatar").Text()))
}

func TestRenderPageUsesThemeStyles(t *testing.T) {
	t.Parallel()

	current := theme.MustLookup(theme.Terminal)
	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, PageData{
		BotName:     "Crystaline",
		Theme:       current,
		Themes:      theme.All(),
		Style:       styleFor(current),
		Suggestions: suggestions,
	}))
	html := buf.String()

	assert.Contains(t, html, "--bg-gradient: linear-gradient(135deg, #000000 0%, #0a0a0a 100%);")
	assert.Contains(t, html, "--bot-bubble: rgba(0, 20, 0, 0.9);")
	assert.NotContains(t, html, "ZgotmplZ")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	checked := doc.Find(`input[name="theme"][checked]`)
	require.Equal(t, 1, checked.Length())
	assert.Equal(t, "terminal", checked.AttrOr("value", ""))
	assert.Equal(t, 5, doc.Find(`input[name="theme"]`).Length())
}

func TestRenderPageWelcomeScreen(t *testing.T) {
	t.Parallel()

	current := theme.MustLookup(theme.Default)
	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, PageData{
		BotName:     "Crystaline",
		Theme:       current,
		Themes:      theme.All(),
		Style:       styleFor(current),
		Suggestions: suggestions,
	}))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 6, doc.Find("button.suggestion").Length())
	assert.Equal(t, 0, doc.Find(".message-row").Length())
	assert.Equal(t, 0, doc.Find("#export-chat").Length())
	assert.Equal(t, 1, doc.Find("#save-key").Length())
	assert.Equal(t, "Chat with Crystaline", doc.Find("title").Text())
}

func TestSuggestionPrompt(t *testing.T) {
	t.Parallel()

	s, ok := suggestionAt(1)
	require.True(t, ok)
	assert.Equal(t, "Help me with: Code Solutions", s.Prompt())

	_, ok = suggestionAt(len(suggestions))
	assert.False(t, ok)
	_, ok = suggestionAt(-1)
	assert.False(t, ok)
}
