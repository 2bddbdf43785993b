package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dskvich/clinical-console/pkg/domain"
)

const emptyLogText = "Start a conversation"

type renderOptions struct {
	width        int
	showThinking bool
	pending      bool
	spinner      string
}

// renderLog draws the conversation log in insertion order.
func renderLog(messages []domain.Message, opts renderOptions) string {
	if len(messages) == 0 && !opts.pending {
		return dimStyle.Render(emptyLogText)
	}

	width := opts.width
	if width < 10 {
		width = 10
	}
	wrap := lipgloss.NewStyle().Width(width)

	blocks := make([]string, 0, len(messages)+1)
	for _, m := range messages {
		blocks = append(blocks, renderMessage(m, wrap, opts.showThinking))
	}
	if opts.pending {
		blocks = append(blocks, assistantLabelStyle.Render("Assistant")+"\n"+opts.spinner+dimStyle.Render(" Thinking..."))
	}

	return strings.Join(blocks, "\n"+separator+"\n")
}

func renderMessage(m domain.Message, wrap lipgloss.Style, showThinking bool) string {
	var sb strings.Builder

	if m.Role == domain.RoleUser {
		sb.WriteString(userLabelStyle.Render("You"))
		sb.WriteString("\n")
		sb.WriteString(wrap.Render(m.Content))
		return sb.String()
	}

	sb.WriteString(assistantLabelStyle.Render("Assistant"))
	sb.WriteString("\n")

	switch {
	case m.Error:
		sb.WriteString(errorStyle.Inherit(wrap).Render(m.Content))
	case m.IsStructured():
		if m.Thinking != "" {
			if showThinking {
				sb.WriteString(thinkingToggleStyle.Render("▼ Thinking"))
				sb.WriteString("\n")
				sb.WriteString(thinkingBodyStyle.Width(wrap.GetWidth() - 2).Render(m.Thinking))
			} else {
				sb.WriteString(thinkingToggleStyle.Render("▶ Thinking"))
				sb.WriteString(dimStyle.Render(" (ctrl+t)"))
			}
			sb.WriteString("\n")
		}
		if m.Final != "" {
			sb.WriteString(finalLabelStyle.Render("Final"))
			sb.WriteString("\n")
			sb.WriteString(wrap.Render(m.Final))
		}
	default:
		sb.WriteString(wrap.Render(m.Content))
	}

	return strings.TrimRight(sb.String(), "\n")
}
