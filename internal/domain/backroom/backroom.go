// Package backroom implements the bounded, turn-based multi-agent
// conversation aggregate and the orchestration that drives it to completion.
package backroom

import (
	"context"
	"errors"
	"time"
)

// Status is the lifecycle state of a backroom conversation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ErrInvalidTransition is returned when a status transition is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// validTransitions encodes the forward-only lifecycle:
// pending -> active -> completed. Terminal states have no exits.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusActive},
	StatusActive:    {StatusCompleted},
	StatusCompleted: {},
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// CanTransitionTo checks whether moving to target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionTo returns the target status or ErrInvalidTransition.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return s, ErrInvalidTransition
	}
	return target, nil
}

func (s Status) String() string {
	return string(s)
}

// Visibility controls whether a backroom appears in public listings.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// MessageMetadata carries per-turn diagnostics. TokensUsed is a content
// length proxy, Latency the milliseconds since the previous document update.
type MessageMetadata struct {
	TokensUsed    int    `json:"tokensUsed"`
	Latency       int64  `json:"latency"`
	IsLastMessage bool   `json:"isLastMessage"`
	AgentName     string `json:"agentName,omitempty"`
	AgentType     string `json:"agentType,omitempty"`
	MessageNumber int    `json:"messageNumber"`
	TotalMessages int    `json:"totalMessages"`
}

// Message is one generated turn. Messages are created once and never
// mutated afterwards.
type Message struct {
	ID        string          `json:"id"`
	AgentID   string          `json:"agentId"`
	Content   string          `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
	Metadata  MessageMetadata `json:"metadata"`
}

// Backroom is the persisted conversation aggregate. It is always read and
// written as a whole document.
type Backroom struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Topic        string     `json:"topic"`
	Description  string     `json:"description"`
	AgentIDs     []string   `json:"agents"`
	Visibility   Visibility `json:"visibility"`
	Creator      string     `json:"creator"`
	MessageLimit int        `json:"messageLimit"`
	Messages     []Message  `json:"messages"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// SpeakerIndex returns the position in agents of the speaker for the message
// about to be produced, given how many messages exist already. The rotation
// is plain round-robin over the participant list.
func SpeakerIndex(agentCount, messageCount int) int {
	if agentCount <= 0 {
		return 0
	}
	return messageCount % agentCount
}

// NextSpeaker returns the agent id scheduled for the next turn.
func (b *Backroom) NextSpeaker() string {
	return b.AgentIDs[SpeakerIndex(len(b.AgentIDs), len(b.Messages))]
}

// AtLimit reports whether the conversation has used up its turn budget.
func (b *Backroom) AtLimit() bool {
	return len(b.Messages) >= b.MessageLimit
}

// OnFinalTurn reports whether the message about to be produced is the last
// one allowed.
func (b *Backroom) OnFinalTurn() bool {
	return len(b.Messages) == b.MessageLimit-1
}

// Page is one page of a backroom listing.
type Page struct {
	Backrooms  []*Backroom
	NextCursor string
}

// Repository persists backroom documents and their derived projections.
type Repository interface {
	Create(ctx context.Context, b *Backroom) error
	FindByID(ctx context.Context, id string) (*Backroom, error)

	// Update overwrites the whole document. expectedUpdatedAt is the
	// timestamp observed at read time; implementations reject the write as a
	// conflict when the stored document has moved on, so stale writers retry
	// instead of clobbering a concurrent turn.
	Update(ctx context.Context, b *Backroom, expectedUpdatedAt time.Time) error

	List(ctx context.Context, limit int, cursor string) (*Page, error)

	SaveSummary(ctx context.Context, id string, summary *ConversationSummary) error
	SaveHistory(ctx context.Context, id string, history *ConversationHistory) error
}
