package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mktautomations/opsc/internal/domain"
	"gopkg.in/yaml.v3"
)

// Exporter writes saved outputs in one format.
type Exporter interface {
	Export(outputs []domain.SavedOutput, w io.Writer) error
	Extension() string
}

func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml, md)", format)
	}
}

type JSONExporter struct{}

func (e *JSONExporter) Export(outputs []domain.SavedOutput, w io.Writer) error {
	if outputs == nil {
		outputs = []domain.SavedOutput{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(outputs)
}

func (e *JSONExporter) Extension() string {
	return "json"
}

type YAMLExporter struct{}

func (e *YAMLExporter) Export(outputs []domain.SavedOutput, w io.Writer) error {
	if outputs == nil {
		outputs = []domain.SavedOutput{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(outputs)
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}

// MarkdownExporter writes one section per saved output. Content is emitted
// verbatim since replies are usually markdown already.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(outputs []domain.SavedOutput, w io.Writer) error {
	var b strings.Builder

	b.WriteString("# Saved outputs\n\n")
	if len(outputs) == 0 {
		b.WriteString("_No saved outputs._\n")
	}

	for i, output := range outputs {
		fmt.Fprintf(&b, "## %s\n\n", output.Label)
		fmt.Fprintf(&b, "**ID:** %d  \n", output.ID)
		fmt.Fprintf(&b, "**Project / agent:** %d / %d  \n", output.ProjectID, output.AgentID)
		if output.Provider != "" || output.Model != "" {
			fmt.Fprintf(&b, "**Model:** %s %s  \n", output.Provider, output.Model)
		}
		if output.RunID > 0 {
			fmt.Fprintf(&b, "**Run:** %d  \n", output.RunID)
		}
		if !output.CreatedAt.IsZero() {
			fmt.Fprintf(&b, "**Saved:** %s  \n", output.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
		}
		b.WriteString("\n")
		if output.Notes != "" {
			fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(strings.TrimSpace(output.Notes), "\n", "\n> "))
		}
		b.WriteString(strings.TrimRight(output.Content, "\n"))
		b.WriteString("\n")
		if i < len(outputs)-1 {
			b.WriteString("\n---\n\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}
