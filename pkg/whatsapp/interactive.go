package whatsapp

import (
	"context"
)

// ReplyButton is one quick-reply button shown under an interactive message.
type ReplyButton struct {
	ID    string
	Title string
}

// ListRow is a single selectable row inside a list section.
type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ListSection groups rows under a section title.
type ListSection struct {
	Title string    `json:"title,omitempty"`
	Rows  []ListRow `json:"rows"`
}

// FlowLaunch describes an interactive flow invitation.
type FlowLaunch struct {
	FlowID     string
	FlowToken  string
	CTA        string
	Screen     string
	Data       map[string]any
	FlowAction string
}

// SendButtons sends a text body with up to three quick-reply buttons.
func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []ReplyButton, o *Overrides) (*SendResponse, error) {
	actions := make([]map[string]any, 0, len(buttons))
	for _, b := range buttons {
		actions = append(actions, map[string]any{
			"type": "reply",
			"reply": map[string]any{
				"id":    b.ID,
				"title": b.Title,
			},
		})
	}

	return c.sendInteractive(ctx, to, map[string]any{
		"type": "button",
		"body": map[string]any{"body": body},
		"action": map[string]any{
			"buttons": actions,
		},
	}, o)
}

// SendList sends an interactive list message.
func (c *Client) SendList(ctx context.Context, to, body, buttonText string, sections []ListSection, o *Overrides) (*SendResponse, error) {
	return c.sendInteractive(ctx, to, map[string]any{
		"type": "list",
		"body": map[string]any{"body": body},
		"action": map[string]any{
			"button":   buttonText,
			"sections": sections,
		},
	}, o)
}

// SendFlow invites the recipient into a WhatsApp Flow. The reply arrives on
// the webhook as an interactive nfm_reply.
func (c *Client) SendFlow(ctx context.Context, to, body string, flow FlowLaunch, o *Overrides) (*SendResponse, error) {
	action := map[string]any{
		"flow_message_version": "3",
		"flow_id":              flow.FlowID,
		"flow_token":           flow.FlowToken,
		"flow_cta":             flow.CTA,
	}

	flowAction := flow.FlowAction
	if flowAction == "" {
		flowAction = "navigate"
	}
	action["flow_action"] = flowAction

	if flow.Screen != "" {
		payload := map[string]any{"screen": flow.Screen}
		if len(flow.Data) > 0 {
			payload["data"] = flow.Data
		}
		action["flow_action_payload"] = payload
	}

	return c.sendInteractive(ctx, to, map[string]any{
		"type":   "flow",
		"body":   map[string]any{"body": body},
		"action": map[string]any{"name": "flow", "parameters": action},
	}, o)
}

func (c *Client) sendInteractive(ctx context.Context, to string, interactive map[string]any, o *Overrides) (*SendResponse, error) {
	payload := map[string]any{
		"messaging_product": messagingProduct,
		"recipient_type":    "individual",
		"to":                to,
		"type":              "interactive",
		"interactive":       interactive,
	}
	return c.sendMessagePayload(ctx, payload, o)
}
