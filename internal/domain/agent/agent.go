// Package agent holds the immutable agent definitions that participate in
// backroom conversations.
package agent

import (
	"context"
	"time"
)

// Visibility controls whether an agent appears outside its creator's view.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Agent is a personality definition. Agents are created once and never
// mutated during a conversation.
type Agent struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Type               string     `json:"type,omitempty"`
	Description        string     `json:"description,omitempty"`
	Personality        string     `json:"personality"`
	Background         string     `json:"background"`
	Expertise          string     `json:"expertise"`
	CoreBeliefs        string     `json:"coreBeliefs"`
	Quirks             string     `json:"quirks"`
	CommunicationStyle string     `json:"communicationStyle"`
	Traits             []string   `json:"traits"`
	Visibility         Visibility `json:"visibility"`
	Creator            string     `json:"creator"`
	CanLaunchToken     bool       `json:"canLaunchToken"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// Repository loads and stores agent definitions.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Agent, error)
	Create(ctx context.Context, a *Agent) error
}
