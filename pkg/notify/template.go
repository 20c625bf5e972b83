package notify

import (
	"fmt"
	"strings"

	"github.com/osteele/liquid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultMessageTemplate = `:tada: New waitlist signup: *{{ email }}*{% if business_type %} ({{ business_type }}){% endif %} via {{ source }}`

type MessageTemplate struct {
	tpl *liquid.Template
}

func NewMessageTemplate(source string) (*MessageTemplate, error) {
	if strings.TrimSpace(source) == "" {
		source = DefaultMessageTemplate
	}

	tpl, err := liquid.NewEngine().ParseString(source)
	if err != nil {
		return nil, fmt.Errorf("notify: parse message template: %w", err)
	}

	return &MessageTemplate{tpl: tpl}, nil
}

// mrkdwnEscaper covers the three characters Slack treats as control sequences.
var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func (t *MessageTemplate) Render(signup Signup) (string, error) {
	return t.render(bindings(signup, nil))
}

// RenderMrkdwn escapes signup fields so "<!channel>" and links arrive as literal text.
func (t *MessageTemplate) RenderMrkdwn(signup Signup) (string, error) {
	return t.render(bindings(signup, mrkdwnEscaper.Replace))
}

func (t *MessageTemplate) render(b map[string]any) (string, error) {
	out, err := t.tpl.RenderString(b)
	if err != nil {
		return "", fmt.Errorf("notify: render message template: %w", err)
	}
	return out, nil
}

// bindings leaves empty optionals nil so `{% if %}` treats them as absent.
func bindings(signup Signup, escape func(string) string) map[string]any {
	if escape == nil {
		escape = func(s string) string { return s }
	}

	source := signup.Source
	if source == "" {
		source = "unknown source"
	}

	b := map[string]any{
		"id":            signup.ID,
		"email":         escape(signup.Email),
		"source":        escape(source),
		"business_type": nil,
		"created_at":    signup.CreatedAt.UTC().Format("2006-01-02 15:04 MST"),
	}

	if bt := strings.TrimSpace(signup.BusinessType); bt != "" {
		b["business_type"] = escape(businessTypeLabel(bt))
	}

	return b
}

// businessTypeLabel turns "plumbing_services" into "Plumbing Services".
func businessTypeLabel(raw string) string {
	replacer := strings.NewReplacer("_", " ", "-", " ")
	return cases.Title(language.English).String(strings.ToLower(replacer.Replace(raw)))
}
