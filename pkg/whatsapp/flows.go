package whatsapp

import (
	"context"
	"fmt"
	"net/http"
)

// Flow is one entry from a flow listing.
type Flow struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Status     string   `json:"status"`
	Categories []string `json:"categories"`
}

// FlowList is the paged response of a flow query.
type FlowList struct {
	Data []Flow `json:"data"`
}

// CreateFlow registers a new flow under the business account and returns the
// assigned flow id. Flow endpoints are account-scoped, so the identifier is
// part of the endpoint rather than the URL path.
func (c *Client) CreateFlow(ctx context.Context, wabaID, name string, categories []string, o *Overrides) (string, error) {
	resp, err := c.Send(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: fmt.Sprintf("%s/flows", wabaID),
		Payload: map[string]any{
			"name":       name,
			"categories": categories,
		},
		OmitPhoneID: true,
		Overrides:   o,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", fmt.Errorf("create flow: %w", err)
	}
	return out.ID, nil
}

// ListFlows lists the flows of a business account.
func (c *Client) ListFlows(ctx context.Context, wabaID string, o *Overrides) (*FlowList, error) {
	resp, err := c.Send(ctx, Request{
		Method:      http.MethodGet,
		Endpoint:    fmt.Sprintf("%s/flows", wabaID),
		OmitPhoneID: true,
		Overrides:   o,
	})
	if err != nil {
		return nil, err
	}

	out := new(FlowList)
	if err := resp.Decode(out); err != nil {
		return nil, fmt.Errorf("list flows: %w", err)
	}
	return out, nil
}

// GetFlow fetches one flow by id.
func (c *Client) GetFlow(ctx context.Context, flowID string, o *Overrides) (*Flow, error) {
	resp, err := c.Send(ctx, Request{
		Method:      http.MethodGet,
		Endpoint:    flowID,
		Query:       map[string]string{"fields": "id,name,status,categories"},
		OmitPhoneID: true,
		Overrides:   o,
	})
	if err != nil {
		return nil, err
	}

	out := new(Flow)
	if err := resp.Decode(out); err != nil {
		return nil, fmt.Errorf("get flow: %w", err)
	}
	return out, nil
}

// UpdateFlowJSON uploads a flow.json asset for a draft flow.
func (c *Client) UpdateFlowJSON(ctx context.Context, flowID, filename string, content []byte, o *Overrides) error {
	_, err := c.Send(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: fmt.Sprintf("%s/assets", flowID),
		Form: &Form{
			Fields: map[string]string{
				"name":       filename,
				"asset_type": "FLOW_JSON",
			},
			File: &FilePart{
				FieldName:   "file",
				Filename:    filename,
				ContentType: "application/json",
				Content:     content,
			},
		},
		OmitPhoneID: true,
		Overrides:   o,
	})
	return err
}

// PublishFlow transitions a draft flow to published.
func (c *Client) PublishFlow(ctx context.Context, flowID string, o *Overrides) error {
	_, err := c.Send(ctx, Request{
		Method:      http.MethodPost,
		Endpoint:    fmt.Sprintf("%s/publish", flowID),
		OmitPhoneID: true,
		Overrides:   o,
	})
	return err
}

// DeleteFlow removes a draft flow.
func (c *Client) DeleteFlow(ctx context.Context, flowID string, o *Overrides) error {
	_, err := c.Send(ctx, Request{
		Method:      http.MethodDelete,
		Endpoint:    flowID,
		OmitPhoneID: true,
		Overrides:   o,
	})
	return err
}
