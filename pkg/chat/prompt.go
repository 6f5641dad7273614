package chat

import (
	"strings"
	"text/template"

	"github.com/joopert/translate-app/pkg/ptrx"
	"github.com/joopert/translate-app/pkg/simplify"
)

// instructionsTemplate turns a personalization config into the system
// prompt for the assistant. Unset fields simply drop their section.
var instructionsTemplate = template.Must(template.New("instructions").Parse(`You are a reading assistant that explains web page content in simpler terms.
{{- if .Familiarity}}
The reader's familiarity with the topic is: {{.Familiarity}}. Pitch your explanation accordingly.
{{- end}}
{{- if .Background}}
The reader's background: {{.Background}}
{{- end}}
{{- if .Context}}
Additional context for this conversation: {{.Context}}
{{- end}}
{{- if .Purpose}}
The reader's goal: {{.Purpose}}
{{- end}}
{{- if eq .LearningStyle "visual"}}
Prefer visual explanations: describe diagrams and structure information spatially.
{{- else if eq .LearningStyle "analogies"}}
Explain concepts through analogies with everyday situations.
{{- end}}
{{- if .Strict}}
Stick strictly to the provided page content. Do not bring in outside knowledge.
{{- end}}
{{- if .Summary}}
Start your answer with a short summary before going into detail.
{{- end}}
Answer in plain language and keep responses focused on the reader's question.`))

// promptVars flattens the config's optional fields for the template.
type promptVars struct {
	Familiarity   string
	Background    string
	Context       string
	Purpose       string
	LearningStyle string
	Strict        bool
	Summary       bool
}

// RenderInstructions builds the system prompt for a config.
func RenderInstructions(cfg simplify.Config) (string, error) {
	v := promptVars{
		Background: ptrx.StringValue(cfg.Background),
		Context:    ptrx.StringValue(cfg.Context),
		Purpose:    ptrx.StringValue(cfg.Purpose),
		Strict:     ptrx.BoolValue(cfg.StrictAdherence),
		Summary:    ptrx.BoolValue(cfg.Summary),
	}
	if cfg.Familiarity != nil {
		v.Familiarity = string(*cfg.Familiarity)
	}
	// "no preference" is an explicit choice to not steer the style.
	if cfg.LearningStyle != nil && *cfg.LearningStyle != simplify.LearningNoPreference {
		v.LearningStyle = string(*cfg.LearningStyle)
	}

	var sb strings.Builder
	if err := instructionsTemplate.Execute(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}
