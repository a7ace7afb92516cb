package notification

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

const defaultKey = "DEFAULT"

// Templates holds parsed message templates keyed by channel then event.
type Templates struct {
	byChannel map[string]map[string]*template.Template
}

// DefaultTemplates returns the templates compiled into the binary.
func DefaultTemplates() *Templates {
	t, err := ParseTemplates(defaultTemplates)
	if err != nil {
		panic(fmt.Sprintf("notification: embedded templates: %v", err))
	}
	return t
}

// LoadTemplates reads a YAML override from path. An empty path yields the
// embedded defaults.
func LoadTemplates(path string) (*Templates, error) {
	if path == "" {
		return DefaultTemplates(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	return ParseTemplates(raw)
}

func ParseTemplates(raw []byte) (*Templates, error) {
	var doc map[string]map[string]string
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	out := &Templates{byChannel: make(map[string]map[string]*template.Template, len(doc))}
	for channel, events := range doc {
		channel = strings.ToUpper(channel)
		parsed := make(map[string]*template.Template, len(events))
		for event, text := range events {
			event = strings.ToUpper(event)
			tmpl, err := template.New(channel + "/" + event).Parse(text)
			if err != nil {
				return nil, fmt.Errorf("template %s/%s: %w", channel, event, err)
			}
			parsed[event] = tmpl
		}
		out.byChannel[channel] = parsed
	}
	return out, nil
}

// Render executes the template for channel and event, falling back to the
// channel's DEFAULT entry.
func (t *Templates) Render(channel, event string, data any) (string, error) {
	events, ok := t.byChannel[strings.ToUpper(channel)]
	if !ok {
		return "", fmt.Errorf("no templates for channel %s", channel)
	}

	tmpl, ok := events[strings.ToUpper(event)]
	if !ok {
		if tmpl, ok = events[defaultKey]; !ok {
			return "", fmt.Errorf("no template for %s/%s", channel, event)
		}
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
