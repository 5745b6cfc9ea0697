package backroom

import (
	"testing"
	"time"
)

func msgFor(agentID, content string, latency int64) Message {
	return Message{
		AgentID: agentID,
		Content: content,
		Metadata: MessageMetadata{
			Latency:    latency,
			TokensUsed: len(content),
		},
	}
}

func TestBuildHistoryAnalytics(t *testing.T) {
	b := &Backroom{
		ID:       "backroom_1",
		Topic:    "reality",
		AgentIDs: []string{"agent_a", "agent_b"},
		Messages: []Message{
			msgFor("agent_a", "0123456789", 100),
			msgFor("agent_b", "01234", 200),
			msgFor("agent_a", "01234567890123456789", 300),
			msgFor("agent_b", "01234", 400),
			msgFor("agent_a", "012345678901234567890123456789", 500),
		},
	}

	h := BuildHistory(b)

	if got, want := h.Analytics.AverageResponseTime, 300.0; got != want {
		t.Errorf("AverageResponseTime = %v, want %v", got, want)
	}

	if len(h.Analytics.ParticipantStats) != 2 {
		t.Fatalf("ParticipantStats count = %d, want 2", len(h.Analytics.ParticipantStats))
	}

	a := h.Analytics.ParticipantStats[0]
	if a.AgentID != "agent_a" || a.MessageCount != 3 || a.AverageResponseLength != 20 {
		t.Errorf("agent_a stats = %+v, want count 3 avg length 20", a)
	}

	bStats := h.Analytics.ParticipantStats[1]
	if bStats.AgentID != "agent_b" || bStats.MessageCount != 2 || bStats.AverageResponseLength != 5 {
		t.Errorf("agent_b stats = %+v, want count 2 avg length 5", bStats)
	}
}

func TestBuildHistorySilentParticipant(t *testing.T) {
	b := &Backroom{
		AgentIDs: []string{"agent_a", "agent_b", "agent_c"},
		Messages: []Message{
			msgFor("agent_a", "hello.", 50),
		},
	}

	h := BuildHistory(b)

	for _, stats := range h.Analytics.ParticipantStats {
		if stats.AgentID == "agent_a" {
			continue
		}
		if stats.MessageCount != 0 || stats.AverageResponseLength != 0 {
			t.Errorf("silent participant %s reported %+v, want zeros", stats.AgentID, stats)
		}
	}
}

func TestBuildHistoryEmptyConversation(t *testing.T) {
	b := &Backroom{AgentIDs: []string{"agent_a"}}
	h := BuildHistory(b)
	if h.Analytics.AverageResponseTime != 0 {
		t.Errorf("AverageResponseTime for empty conversation = %v, want 0", h.Analytics.AverageResponseTime)
	}
}

func TestBuildSummary(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := created.Add(90 * time.Second)

	b := &Backroom{
		ID:        "backroom_1",
		Topic:     "simulation theory",
		AgentIDs:  []string{"agent_a", "agent_b"},
		Messages:  make([]Message, 12),
		CreatedAt: created,
	}

	s := BuildSummary(b, now)

	if s.ID != "backroom_1" || s.Topic != "simulation theory" {
		t.Errorf("summary identity = %q/%q", s.ID, s.Topic)
	}
	if s.MessageCount != 12 {
		t.Errorf("MessageCount = %d, want 12", s.MessageCount)
	}
	if s.Duration != 90_000 {
		t.Errorf("Duration = %d ms, want 90000", s.Duration)
	}
	if s.Status != StatusCompleted {
		t.Errorf("Status = %s, want completed", s.Status)
	}
	if !s.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt = %v, want %v", s.CompletedAt, now)
	}
}
