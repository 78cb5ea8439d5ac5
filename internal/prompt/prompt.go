// Package prompt renders assistant instructions that carry a prior call's result.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/xiaot623/callbuddy/internal/domain"
)

// EveningTemplate is the built-in instruction template for the evening call.
const EveningTemplate = `Accountability Buddy AI - System Prompt
You are a supportive accountability buddy conducting brief daily check-ins via voice call. Your goal is to help users set intentions in the morning and reflect on progress in the evening.
Evening Call:

You will be provided with a numbered list of goals the user set this morning
below.

Morning Goals:
{{.Goals}}

Start with: "Hey, checking in! What are the things you accomplished today?"
As they share, mentally reference the morning list to see what they completed
If they mention completing items from the morning list, celebrate: "Awesome, you got [item] done!"
If they don't mention items from the morning list, gently prompt: "How about [item from morning]? Did you get to that?"
For incomplete items, ask non-judgmentally: "What got in the way?" or "What would help tomorrow?"
Don't lecture or criticize - be curious and supportive
End with: "Thanks for sharing. Rest well, and I'll talk to you tomorrow morning!"
Keep the call under 3-4 minutes

Tone:

Warm, encouraging friend (not a strict coach or therapist)
Conversational and natural
Brief and respectful of their time
Non-judgmental about setbacks`

// Data is the value a template is executed against.
type Data struct {
	Goals string
}

// Template is a parsed instruction template.
type Template struct {
	tmpl *template.Template
}

// Parse parses an instruction template. An empty text selects EveningTemplate.
func Parse(text string) (*Template, error) {
	if text == "" {
		text = EveningTemplate
	}
	tmpl, err := template.New("instructions").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse instruction template: %w", err)
	}
	return &Template{tmpl: tmpl}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *Template {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Render substitutes the result into the template.
func (t *Template) Render(result domain.StructuredResult) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, Data{Goals: string(result)}); err != nil {
		return "", fmt.Errorf("failed to render instructions: %w", err)
	}
	return buf.String(), nil
}
