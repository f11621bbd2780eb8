package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
)

const assistantApology = "Sorry, I encountered an error while processing your request."
const assistantNoAnswer = "I couldn't generate a response at this time."

const assistantInstruction = `You are K-Assistant, a helpful AI integrated into KVISION Academy's management system.
Your current user role context is: %s.

If context is STUDENT: Help with homework, explain concepts, summarize notes. Keep it encouraging.
If context is TEACHER: Help create lesson plans, quiz questions, or report comments. Professional tone.
If context is ADMIN: Help draft announcements, emails, or analyze school data trends. Formal tone.

Keep responses concise and formatted nicely.`

// AssistantService is the thin wrapper around the generative-AI backend:
// one request, one response, a role-derived system instruction, and no
// conversation memory. Ask never propagates errors — any failure degrades
// to a fixed apology string.
type AssistantService struct {
	client ports.AssistantClient
	log    zerolog.Logger
}

func NewAssistantService(client ports.AssistantClient, log zerolog.Logger) *AssistantService {
	return &AssistantService{client: client, log: log}
}

func (s *AssistantService) Ask(ctx context.Context, role domain.Role, prompt string) string {
	if s.client == nil {
		return assistantApology
	}

	instruction := fmt.Sprintf(assistantInstruction, role)
	text, err := s.client.GenerateContent(ctx, instruction, prompt)
	if err != nil {
		s.log.Error().Err(err).Str("role", string(role)).Msg("assistant request failed")
		return assistantApology
	}
	if strings.TrimSpace(text) == "" {
		return assistantNoAnswer
	}
	return text
}
