package whatsapp

import (
	"context"
	"fmt"
	"net/http"
)

const messagingProduct = "whatsapp"

// SendResponse mirrors the successful reply to a message send.
type SendResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Contacts         []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// MediaRef points at media either already uploaded (ID) or hosted elsewhere
// (Link). Exactly one of the two should be set.
type MediaRef struct {
	ID       string
	Link     string
	Caption  string
	Filename string
}

func (m MediaRef) payload(withFilename bool) map[string]any {
	p := map[string]any{}
	if m.ID != "" {
		p["id"] = m.ID
	}
	if m.Link != "" {
		p["link"] = m.Link
	}
	if m.Caption != "" {
		p["caption"] = m.Caption
	}
	if withFilename && m.Filename != "" {
		p["filename"] = m.Filename
	}
	return p
}

// Location is an outbound location message body.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, to, body string, previewURL bool, o *Overrides) (*SendResponse, error) {
	payload := map[string]any{
		"messaging_product": messagingProduct,
		"recipient_type":    "individual",
		"to":                to,
		"type":              "text",
		"text": map[string]any{
			"body":        body,
			"preview_url": previewURL,
		},
	}
	return c.sendMessagePayload(ctx, payload, o)
}

// SendImage sends an image by media id or link.
func (c *Client) SendImage(ctx context.Context, to string, media MediaRef, o *Overrides) (*SendResponse, error) {
	return c.sendMedia(ctx, to, "image", media.payload(false), o)
}

// SendVideo sends a video by media id or link.
func (c *Client) SendVideo(ctx context.Context, to string, media MediaRef, o *Overrides) (*SendResponse, error) {
	return c.sendMedia(ctx, to, "video", media.payload(false), o)
}

// SendAudio sends an audio clip by media id or link.
func (c *Client) SendAudio(ctx context.Context, to string, media MediaRef, o *Overrides) (*SendResponse, error) {
	return c.sendMedia(ctx, to, "audio", media.payload(false), o)
}

// SendDocument sends a document by media id or link. The filename, when set,
// controls how the attachment is displayed.
func (c *Client) SendDocument(ctx context.Context, to string, media MediaRef, o *Overrides) (*SendResponse, error) {
	return c.sendMedia(ctx, to, "document", media.payload(true), o)
}

// SendSticker sends a sticker by media id or link.
func (c *Client) SendSticker(ctx context.Context, to string, media MediaRef, o *Overrides) (*SendResponse, error) {
	return c.sendMedia(ctx, to, "sticker", media.payload(false), o)
}

// SendLocation sends a location pin.
func (c *Client) SendLocation(ctx context.Context, to string, loc Location, o *Overrides) (*SendResponse, error) {
	payload := map[string]any{
		"messaging_product": messagingProduct,
		"to":                to,
		"type":              "location",
		"location":          loc,
	}
	return c.sendMessagePayload(ctx, payload, o)
}

// SendReaction reacts to a previously received message. An empty emoji
// removes the reaction.
func (c *Client) SendReaction(ctx context.Context, to, messageID, emoji string, o *Overrides) (*SendResponse, error) {
	payload := map[string]any{
		"messaging_product": messagingProduct,
		"to":                to,
		"type":              "reaction",
		"reaction": map[string]any{
			"message_id": messageID,
			"emoji":      emoji,
		},
	}
	return c.sendMessagePayload(ctx, payload, o)
}

// MarkRead marks an inbound message as read.
func (c *Client) MarkRead(ctx context.Context, messageID string, o *Overrides) error {
	payload := map[string]any{
		"messaging_product": messagingProduct,
		"status":            "read",
		"message_id":        messageID,
	}
	_, err := c.Send(ctx, Request{
		Method:    http.MethodPost,
		Endpoint:  "messages",
		Payload:   payload,
		Overrides: o,
	})
	return err
}

func (c *Client) sendMedia(ctx context.Context, to, kind string, media map[string]any, o *Overrides) (*SendResponse, error) {
	payload := map[string]any{
		"messaging_product": messagingProduct,
		"recipient_type":    "individual",
		"to":                to,
		"type":              kind,
		kind:                media,
	}
	return c.sendMessagePayload(ctx, payload, o)
}

func (c *Client) sendMessagePayload(ctx context.Context, payload map[string]any, o *Overrides) (*SendResponse, error) {
	resp, err := c.Send(ctx, Request{
		Method:    http.MethodPost,
		Endpoint:  "messages",
		Payload:   payload,
		Overrides: o,
	})
	if err != nil {
		return nil, err
	}

	out := new(SendResponse)
	if err := resp.Decode(out); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return out, nil
}
