package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mktautomations/opsc/internal/domain"
)

const (
	defaultWidth = 100
	defaultStyle = "dark"
)

type Options struct {
	// Style is a glamour standard style name. "notty" renders plain text.
	Style string
	Width int
}

// Markdown lays the conversation out as a markdown document. Turn indexes
// are the ones promote expects.
func Markdown(conv domain.ConversationContext) string {
	var b strings.Builder

	b.WriteString("# Conversation\n\n")
	b.WriteString("_" + contextLine(conv) + "_\n\n")

	if len(conv.Turns) == 0 {
		b.WriteString("No turns yet.\n")
		return b.String()
	}

	for i, turn := range conv.Turns {
		fmt.Fprintf(&b, "### [%d] %s\n\n", i, turn.Role)
		b.WriteString(strings.TrimRight(turn.Content, "\n"))
		b.WriteString("\n\n")
		if turn.Run != nil {
			b.WriteString("_" + runLine(*turn.Run) + "_\n\n")
		}
	}

	runs, cost := conv.Totals()
	fmt.Fprintf(&b, "---\n\n**%d runs, $%.4f total**\n", runs, cost)
	return b.String()
}

// Render passes Markdown through glamour.
func Render(conv domain.ConversationContext, opts Options) (string, error) {
	style := opts.Style
	if style == "" {
		style = defaultStyle
	}
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	out, err := renderer.Render(Markdown(conv))
	if err != nil {
		return "", fmt.Errorf("render transcript: %w", err)
	}
	return out, nil
}

func contextLine(conv domain.ConversationContext) string {
	var parts []string
	if conv.Key == (domain.ConversationKey{}) {
		parts = append(parts, "no project or agent selected")
	} else {
		parts = append(parts, conv.Key.String())
	}
	if conv.ConversationID > 0 {
		parts = append(parts, fmt.Sprintf("conversation %d", conv.ConversationID))
	} else {
		parts = append(parts, "not saved yet")
	}
	return strings.Join(parts, " · ")
}

func runLine(run domain.Run) string {
	parts := []string{}
	if run.Provider != "" {
		parts = append(parts, run.Provider)
	}
	if run.Model != "" {
		parts = append(parts, run.Model)
	}
	if run.RunID > 0 {
		parts = append(parts, fmt.Sprintf("run %d", run.RunID))
	}
	parts = append(parts,
		fmt.Sprintf("$%.4f", run.CostUSD),
		fmt.Sprintf("%d in / %d out tokens", run.InputTokens, run.OutputTokens),
	)
	return strings.Join(parts, " · ")
}
