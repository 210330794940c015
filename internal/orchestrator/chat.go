package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"marketsage/internal/agents"
)

// ProcessChatMessage answers one conversational turn. The prompt context
// holds only the session's most recent turns; older exchanges are dropped
// from context though they remain in the session history.
func (m *Manager) ProcessChatMessage(ctx context.Context, session *Session, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("empty chat message")
	}

	var b strings.Builder
	recent := session.RecentTurns()
	if len(recent) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, turn := range recent {
			b.WriteString("User: " + turn.UserMessage + "\n")
			b.WriteString("Assistant: " + turn.Reply + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("User: " + message)

	reply, err := m.runner.Execute(ctx, []agents.Task{{
		Role:           agents.RoleChatbot,
		Description:    b.String(),
		ExpectedOutput: "A helpful, data-grounded reply to the user's latest message.",
	}})
	if err != nil {
		return "", &ModelExecutionError{Stage: "chat", Err: err}
	}

	session.AppendTurn(message, reply)
	return reply, nil
}
