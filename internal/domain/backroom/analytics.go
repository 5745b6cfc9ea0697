package backroom

import "time"

// ConversationSummary is the compact completion record written alongside the
// conversation document once it reaches its message limit.
type ConversationSummary struct {
	ID           string    `json:"id"`
	Topic        string    `json:"topic"`
	Participants []string  `json:"participants"`
	MessageCount int       `json:"messageCount"`
	Duration     int64     `json:"duration"`
	CompletedAt  time.Time `json:"completedAt"`
	Status       Status    `json:"status"`
}

// ParticipantStats aggregates one participant's contribution.
type ParticipantStats struct {
	AgentID               string  `json:"agentId"`
	MessageCount          int     `json:"messageCount"`
	AverageResponseLength float64 `json:"averageResponseLength"`
}

// Analytics carries derived conversation measurements.
type Analytics struct {
	AverageResponseTime float64            `json:"averageResponseTime"`
	ParticipantStats    []ParticipantStats `json:"participantStats"`
}

// ConversationHistory is the full transcript enriched with analytics.
type ConversationHistory struct {
	Backroom
	Analytics Analytics `json:"analytics"`
}

// BuildSummary derives the completion summary. Duration is wall time from
// creation to now in milliseconds.
func BuildSummary(b *Backroom, now time.Time) *ConversationSummary {
	return &ConversationSummary{
		ID:           b.ID,
		Topic:        b.Topic,
		Participants: b.AgentIDs,
		MessageCount: len(b.Messages),
		Duration:     now.Sub(b.CreatedAt).Milliseconds(),
		CompletedAt:  now,
		Status:       StatusCompleted,
	}
}

// BuildHistory derives the enriched transcript record. Participants with no
// messages report zero counts rather than dividing by zero.
func BuildHistory(b *Backroom) *ConversationHistory {
	var totalLatency int64
	for _, msg := range b.Messages {
		totalLatency += msg.Metadata.Latency
	}

	avgLatency := 0.0
	if len(b.Messages) > 0 {
		avgLatency = float64(totalLatency) / float64(len(b.Messages))
	}

	stats := make([]ParticipantStats, 0, len(b.AgentIDs))
	for _, agentID := range b.AgentIDs {
		count := 0
		totalLength := 0
		for _, msg := range b.Messages {
			if msg.AgentID == agentID {
				count++
				totalLength += len(msg.Content)
			}
		}
		avgLength := 0.0
		if count > 0 {
			avgLength = float64(totalLength) / float64(count)
		}
		stats = append(stats, ParticipantStats{
			AgentID:               agentID,
			MessageCount:          count,
			AverageResponseLength: avgLength,
		})
	}

	return &ConversationHistory{
		Backroom:  *b,
		Analytics: Analytics{AverageResponseTime: avgLatency, ParticipantStats: stats},
	}
}
