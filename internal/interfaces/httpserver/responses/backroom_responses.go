package responses

import (
	"time"

	"zync-server/backroom-api/internal/domain/backroom"
)

// BackroomPayload is the conversation document returned to clients. The
// transcript is included only on single-document reads.
type BackroomPayload struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Topic        string             `json:"topic"`
	Description  string             `json:"description,omitempty"`
	Agents       []string           `json:"agents"`
	Visibility   string             `json:"visibility"`
	Creator      string             `json:"creator"`
	MessageLimit int                `json:"messageLimit"`
	MessageCount int                `json:"messageCount"`
	Status       string             `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
	Messages     []backroom.Message `json:"messages,omitempty"`
}

// FromBackroom maps the domain document to the detail payload.
func FromBackroom(b *backroom.Backroom) BackroomPayload {
	p := summarize(b)
	p.Messages = b.Messages
	return p
}

// FromBackroomSummary maps the domain document to the listing payload.
func FromBackroomSummary(b *backroom.Backroom) BackroomPayload {
	return summarize(b)
}

func summarize(b *backroom.Backroom) BackroomPayload {
	return BackroomPayload{
		ID:           b.ID,
		Name:         b.Name,
		Topic:        b.Topic,
		Description:  b.Description,
		Agents:       b.AgentIDs,
		Visibility:   string(b.Visibility),
		Creator:      b.Creator,
		MessageLimit: b.MessageLimit,
		MessageCount: len(b.Messages),
		Status:       b.Status.String(),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// BackroomListResponse wraps one page of conversations.
type BackroomListResponse struct {
	Data       []BackroomPayload `json:"data"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

// FromPage maps a repository page to the listing response.
func FromPage(page *backroom.Page) BackroomListResponse {
	data := make([]BackroomPayload, 0, len(page.Backrooms))
	for _, b := range page.Backrooms {
		data = append(data, FromBackroomSummary(b))
	}
	return BackroomListResponse{Data: data, NextCursor: page.NextCursor}
}

// TurnResponse reports the outcome of one generation request.
type TurnResponse struct {
	Success     bool              `json:"success"`
	IsCompleted bool              `json:"isCompleted"`
	Message     *backroom.Message `json:"message,omitempty"`
}

// FromTurnResult maps a turn outcome to the wire shape.
func FromTurnResult(r *backroom.TurnResult) TurnResponse {
	return TurnResponse{
		Success:     r.Produced,
		IsCompleted: r.Completed,
		Message:     r.Message,
	}
}
