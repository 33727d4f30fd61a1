package whatsapp

import (
	"context"
	"fmt"
	"net/http"
)

// MediaInfo is the metadata returned when querying an uploaded media id. The
// URL it carries is pre-authorized and short-lived; fetch it with Download.
type MediaInfo struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	Sha256   string `json:"sha256"`
	FileSize int64  `json:"file_size"`
}

// UploadMedia uploads raw bytes to the media endpoint and returns the media
// id assigned by the platform.
func (c *Client) UploadMedia(ctx context.Context, filename string, content []byte, mimeType string, o *Overrides) (string, error) {
	resp, err := c.Send(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: "media",
		Form: &Form{
			Fields: map[string]string{
				"messaging_product": messagingProduct,
				"type":              mimeType,
			},
			File: &FilePart{
				FieldName:   "file",
				Filename:    filename,
				ContentType: mimeType,
				Content:     content,
			},
		},
		Overrides: o,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}
	return out.ID, nil
}

// GetMediaInfo resolves a media id to its download URL and metadata. The
// media id is itself the endpoint, so the phone number id is not injected.
func (c *Client) GetMediaInfo(ctx context.Context, mediaID string, o *Overrides) (*MediaInfo, error) {
	resp, err := c.Send(ctx, Request{
		Method:      http.MethodGet,
		Endpoint:    mediaID,
		OmitPhoneID: true,
		Overrides:   o,
	})
	if err != nil {
		return nil, err
	}

	out := new(MediaInfo)
	if err := resp.Decode(out); err != nil {
		return nil, fmt.Errorf("get media info: %w", err)
	}
	return out, nil
}

// DeleteMedia removes an uploaded media object.
func (c *Client) DeleteMedia(ctx context.Context, mediaID string, o *Overrides) error {
	_, err := c.Send(ctx, Request{
		Method:      http.MethodDelete,
		Endpoint:    mediaID,
		OmitPhoneID: true,
		Overrides:   o,
	})
	return err
}

// DownloadMedia fetches the binary content behind a pre-authorized media URL,
// as returned by GetMediaInfo.
func (c *Client) DownloadMedia(ctx context.Context, url string, o *Overrides) ([]byte, error) {
	return c.Download(ctx, url, o)
}
