package console

import (
	"strings"
	"testing"

	"github.com/dskvich/clinical-console/pkg/domain"
)

func TestRenderLogEmpty(t *testing.T) {
	if got := renderLog(nil, renderOptions{width: 40}); !strings.Contains(got, emptyLogText) {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestRenderLogStructuredPrefersFinal(t *testing.T) {
	messages := []domain.Message{
		{Role: domain.RoleUser, Content: "chest pain"},
		{Role: domain.RoleAssistant, Content: "fallback text", Thinking: "check vitals", Final: "order ECG"},
	}

	got := renderLog(messages, renderOptions{width: 60})

	for _, want := range []string{"You", "chest pain", "Assistant", "▶ Thinking", "Final", "order ECG"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "fallback text") || strings.Contains(got, "check vitals") {
		t.Errorf("unexpected content in:\n%s", got)
	}
	if strings.Index(got, "chest pain") > strings.Index(got, "order ECG") {
		t.Error("messages must render in insertion order")
	}
}

func TestRenderLogExpandedThinkingAndPending(t *testing.T) {
	messages := []domain.Message{
		{Role: domain.RoleAssistant, Thinking: "check vitals", Final: "order ECG"},
		{Role: domain.RoleAssistant, Content: "⚠️ Error: quota exceeded", Error: true},
	}

	got := renderLog(messages, renderOptions{width: 60, showThinking: true, pending: true, spinner: "*"})

	for _, want := range []string{"▼ Thinking", "check vitals", "Error: quota exceeded", "Thinking..."} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
}
