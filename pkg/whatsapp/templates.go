package whatsapp

import (
	"context"
	"fmt"
	"net/http"
)

// TemplateComponent carries parameters for one part of a template message.
type TemplateComponent struct {
	Type       string           `json:"type"`
	SubType    string           `json:"sub_type,omitempty"`
	Index      string           `json:"index,omitempty"`
	Parameters []map[string]any `json:"parameters,omitempty"`
}

// Template is the definition used when creating a message template.
type Template struct {
	Name       string           `json:"name"`
	Language   string           `json:"language"`
	Category   string           `json:"category"`
	Components []map[string]any `json:"components"`
}

// TemplateList is the paged response of a template query.
type TemplateList struct {
	Data []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Language string `json:"language"`
		Status   string `json:"status"`
		Category string `json:"category"`
	} `json:"data"`
}

// SendTemplate sends a pre-approved template message.
func (c *Client) SendTemplate(ctx context.Context, to, name, language string, components []TemplateComponent, o *Overrides) (*SendResponse, error) {
	template := map[string]any{
		"name":     name,
		"language": map[string]any{"code": language},
	}
	if len(components) > 0 {
		template["components"] = components
	}

	payload := map[string]any{
		"messaging_product": messagingProduct,
		"to":                to,
		"type":              "template",
		"template":          template,
	}
	return c.sendMessagePayload(ctx, payload, o)
}

// ListTemplates queries the message templates of a business account. The
// endpoint is account-scoped, so the phone number id is not injected.
func (c *Client) ListTemplates(ctx context.Context, wabaID string, o *Overrides) (*TemplateList, error) {
	resp, err := c.Send(ctx, Request{
		Method:      http.MethodGet,
		Endpoint:    fmt.Sprintf("%s/message_templates", wabaID),
		OmitPhoneID: true,
		Overrides:   o,
	})
	if err != nil {
		return nil, err
	}

	out := new(TemplateList)
	if err := resp.Decode(out); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return out, nil
}

// CreateTemplate submits a new template definition for review.
func (c *Client) CreateTemplate(ctx context.Context, wabaID string, def Template, o *Overrides) (*Response, error) {
	return c.Send(ctx, Request{
		Method:      http.MethodPost,
		Endpoint:    fmt.Sprintf("%s/message_templates", wabaID),
		Payload:     def,
		OmitPhoneID: true,
		Overrides:   o,
	})
}

// DeleteTemplate removes a template by name.
func (c *Client) DeleteTemplate(ctx context.Context, wabaID, name string, o *Overrides) error {
	_, err := c.Send(ctx, Request{
		Method:      http.MethodDelete,
		Endpoint:    fmt.Sprintf("%s/message_templates", wabaID),
		Query:       map[string]string{"name": name},
		OmitPhoneID: true,
		Overrides:   o,
	})
	return err
}
