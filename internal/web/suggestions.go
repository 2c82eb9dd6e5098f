package web

// Suggestion is a starter card shown on the welcome screen.
type Suggestion struct {
	Icon        string
	Title       string
	Description string
}

// Prompt is the message sent when the card is clicked.
func (s Suggestion) Prompt() string {
	return "Help me with: " + s.Title
}

var suggestions = []Suggestion{
	{Icon: "🧠", Title: "Explain Concepts", Description: "Learn about complex topics"},
	{Icon: "💻", Title: "Code Solutions", Description: "Get help with programming"},
	{Icon: "✍️", Title: "Creative Writing", Description: "Generate stories and content"},
	{Icon: "📊", Title: "Data Analysis", Description: "Analyze and visualize data"},
	{Icon: "🎨", Title: "Design Ideas", Description: "Creative project concepts"},
	{Icon: "🔬", Title: "Research Help", Description: "Dive deep into topics"},
}

func suggestionAt(i int) (Suggestion, bool) {
	if i < 0 || i >= len(suggestions) {
		return Suggestion{}, false
	}
	return suggestions[i], true
}
