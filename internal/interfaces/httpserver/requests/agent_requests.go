package requests

// CreateAgentRequest registers a new agent profile.
type CreateAgentRequest struct {
	Name               string   `json:"name" binding:"required"`
	Type               string   `json:"type"`
	Description        string   `json:"description"`
	Personality        string   `json:"personality"`
	Background         string   `json:"background"`
	Expertise          string   `json:"expertise"`
	CoreBeliefs        string   `json:"coreBeliefs"`
	Quirks             string   `json:"quirks"`
	CommunicationStyle string   `json:"communicationStyle"`
	Traits             []string `json:"traits"`
	Visibility         string   `json:"visibility"`
	Creator            string   `json:"creator" binding:"required"`
	CanLaunchToken     bool     `json:"canLaunchToken"`
}
