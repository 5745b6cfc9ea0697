package backroom

import (
	"fmt"
	"strings"

	"zync-server/backroom-api/internal/domain/agent"
)

// maskedSpeaker replaces other participants' names in the transcript shown
// to the current speaker, keeping each agent unaware of who it talks to.
const maskedSpeaker = "Other Agent"

// BuildTranscript renders the conversation history from the perspective of
// speaker. Only the speaker's own lines carry its name.
func BuildTranscript(messages []Message, speaker *agent.Agent) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		name := maskedSpeaker
		if msg.AgentID == speaker.ID {
			name = speaker.Name
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, msg.Content))
	}
	return strings.Join(lines, "\n")
}

// BuildSystemPrompt composes the persona instruction for the next turn.
// When finalTurn is set the prompt asks for a closing statement.
func BuildSystemPrompt(b *Backroom, speaker *agent.Agent, finalTurn bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are %s having a natural conversation about %q.\n\n", speaker.Name, b.Topic)

	sb.WriteString("YOUR EXACT PERSONALITY (DO NOT DEVIATE):\n")
	fmt.Fprintf(&sb, "• Core Personality: %s\n", speaker.Personality)
	fmt.Fprintf(&sb, "• Unique Quirks: %s\n", speaker.Quirks)
	fmt.Fprintf(&sb, "• Communication Style: %s\n", speaker.CommunicationStyle)
	fmt.Fprintf(&sb, "• Key Beliefs: %s\n", speaker.CoreBeliefs)
	fmt.Fprintf(&sb, "• Background: %s\n", speaker.Background)
	fmt.Fprintf(&sb, "• Expertise: %s\n", speaker.Expertise)
	fmt.Fprintf(&sb, "• Traits: %s\n\n", strings.Join(speaker.Traits, ", "))

	sb.WriteString("CONVERSATION RULES:\n")
	sb.WriteString("- Express your personality through your unique quirks and communication style\n")
	sb.WriteString("- Keep your responses casual and human-like, as if chatting with friends\n")
	sb.WriteString("- Stay true to your beliefs and background\n")
	sb.WriteString("- Keep responses under 3 sentences\n")
	sb.WriteString("- Don't prefix responses with your name\n")
	fmt.Fprintf(&sb, "- Respond naturally to others while staying on topic: %s\n\n", b.Topic)

	if finalTurn {
		sb.WriteString("IMPORTANT: This is your final message in the conversation. Provide a thoughtful conclusion or closing perspective that wraps up your involvement in the discussion.\n\n")
	}

	sb.WriteString("Previous chat:\n")
	sb.WriteString(BuildTranscript(b.Messages, speaker))

	return sb.String()
}

// BuildUserPrompt is the short instruction paired with the system prompt.
func BuildUserPrompt(topic string, finalTurn bool) string {
	if finalTurn {
		return fmt.Sprintf("Provide your final thoughts on %s, offering a conclusion that reflects your personality and perspective.", topic)
	}
	return fmt.Sprintf("Continue the discussion about %s, responding naturally while expressing your unique personality traits and quirks.", topic)
}
