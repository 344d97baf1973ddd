package prompts

import (
	"bytes"
	"embed"
	"strings"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

// RenderSystemPrompt renders the assistant instructions. Round 0 omits the round hint.
func RenderSystemPrompt(round, maxRounds int) (string, error) {
	data := struct {
		Round     int
		MaxRounds int
	}{
		Round:     round,
		MaxRounds: maxRounds,
	}
	return render("templates/system_prompt.md", data)
}

// RenderQueryPrompt wraps a user question before it is sent to the model.
func RenderQueryPrompt(query string) (string, error) {
	data := struct {
		Query string
	}{
		Query: query,
	}
	return render("templates/user_query.md", data)
}

func render(name string, data any) (string, error) {
	content, err := templatesFS.ReadFile(name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
