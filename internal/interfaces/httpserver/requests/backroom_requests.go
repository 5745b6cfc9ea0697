package requests

// CreateBackroomRequest opens a new conversation.
type CreateBackroomRequest struct {
	Name         string   `json:"name"`
	Topic        string   `json:"topic" binding:"required"`
	Description  string   `json:"description"`
	Agents       []string `json:"agents" binding:"required"`
	Visibility   string   `json:"visibility"`
	Creator      string   `json:"creator" binding:"required"`
	MessageLimit int      `json:"messageLimit" binding:"required"`
}
