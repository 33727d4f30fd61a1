package whatsapp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(baseURL string) *Client {
	return NewClient(Config{
		Token:         "test-token",
		PhoneNumberID: "15550009999",
		BaseURL:       baseURL,
		APIVersion:    "v20.0",
	})
}

func TestSendSuccessDecodesBody(t *testing.T) {
	var gotPath, gotAuth, gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)

	resp, err := c.Send(context.Background(), Request{
		Method:   http.MethodPost,
		Endpoint: "messages",
		Payload:  map[string]any{"type": "text"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v20.0/15550009999/messages" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if resp.Body["messaging_product"] != "whatsapp" {
		t.Fatalf("body not decoded: %+v", resp.Body)
	}
}

func TestSendOmitsIdentifierForAccountScopedCalls(t *testing.T) {
	var gotPath, gotQuery string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)

	_, err := c.Send(context.Background(), Request{
		Method:      http.MethodGet,
		Endpoint:    "123456/message_templates",
		Query:       map[string]string{"limit": "10"},
		OmitPhoneID: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v20.0/123456/message_templates" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotQuery != "limit=10" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestSendNoQueryStringWhenMapEmpty(t *testing.T) {
	var gotURI string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)

	_, err := c.Send(context.Background(), Request{
		Method:   http.MethodGet,
		Endpoint: "media",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotURI != "/v20.0/15550009999/media" {
		t.Fatalf("expected no query string, got %q", gotURI)
	}
}

func TestSendClassifiesAPIError(t *testing.T) {
	for _, status := range []int{400, 401, 500} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter","type":"OAuthException","code":100,"fbtrace_id":"tr4c3"}}`))
		}))

		c := testClient(srv.URL)

		_, err := c.Send(context.Background(), Request{
			Method:   http.MethodPost,
			Endpoint: "messages",
			Payload:  map[string]any{},
		})
		srv.Close()

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: expected *APIError, got %v", status, err)
		}
		if apiErr.StatusCode != status {
			t.Fatalf("expected status %d, got %d", status, apiErr.StatusCode)
		}
		if apiErr.Code != 100 || apiErr.Message != "Invalid parameter" || apiErr.FBTraceID != "tr4c3" {
			t.Fatalf("envelope not decoded: %+v", apiErr)
		}
	}
}

func TestSendKeepsRawBodyOnUnparseableError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)

	_, err := c.Send(context.Background(), Request{
		Method:   http.MethodGet,
		Endpoint: "media",
	})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if string(apiErr.Raw) != "upstream unavailable" {
		t.Fatalf("raw body lost: %q", apiErr.Raw)
	}
	if apiErr.Message != "" {
		t.Fatalf("unexpected decoded message %q", apiErr.Message)
	}
}

func TestSendClassifiesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := testClient(url)

	_, err := c.Send(context.Background(), Request{
		Method:   http.MethodPost,
		Endpoint: "messages",
		Payload:  map[string]any{},
	})

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("connection failure must never be an *APIError")
	}
}

func TestSendRejectsMissingConfigWithoutNetworkCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	_, err := c.Send(context.Background(), Request{
		Method:   http.MethodPost,
		Endpoint: "messages",
		Payload:  map[string]any{},
	})

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "token" {
		t.Fatalf("expected token config error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no network call, server saw %d", calls)
	}
}

func TestSendPerCallOverrideSwitchesSender(t *testing.T) {
	var gotPath, gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)

	_, err := c.Send(context.Background(), Request{
		Method:   http.MethodPost,
		Endpoint: "messages",
		Payload:  map[string]any{},
		Overrides: &Overrides{
			Token:         "other-token",
			PhoneNumberID: "15550001234",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v20.0/15550001234/messages" {
		t.Fatalf("override phone id not used: %q", gotPath)
	}
	if gotAuth != "Bearer other-token" {
		t.Fatalf("override token not used: %q", gotAuth)
	}
}

func TestSendMultipartRoundTrip(t *testing.T) {
	fileBytes := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

	var gotProduct, gotType, gotFilename string
	var gotFile []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotProduct = r.FormValue("messaging_product")
		gotType = r.FormValue("type")

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		gotFile, _ = io.ReadAll(file)

		_, _ = w.Write([]byte(`{"id":"media-1"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)

	resp, err := c.Send(context.Background(), Request{
		Method:   http.MethodPost,
		Endpoint: "media",
		Form: &Form{
			Fields: map[string]string{
				"messaging_product": "whatsapp",
				"type":              "image/jpeg",
			},
			File: &FilePart{
				FieldName:   "file",
				Filename:    "photo.jpg",
				ContentType: "image/jpeg",
				Content:     fileBytes,
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotProduct != "whatsapp" || gotType != "image/jpeg" {
		t.Fatalf("text fields lost: product=%q type=%q", gotProduct, gotType)
	}
	if gotFilename != "photo.jpg" {
		t.Fatalf("unexpected filename %q", gotFilename)
	}
	if string(gotFile) != string(fileBytes) {
		t.Fatalf("file bytes mismatch: got %v want %v", gotFile, fileBytes)
	}
	if resp.Body["id"] != "media-1" {
		t.Fatalf("unexpected response body: %+v", resp.Body)
	}
}

func TestDownloadReturnsOpaqueBytes(t *testing.T) {
	payload := []byte("binary-media-content\x00\x01")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	c := testClient(srv.URL)

	got, err := c.Download(context.Background(), srv.URL+"/some/presigned/path", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("bytes mismatch: got %q", got)
	}
}

func TestDownloadClassifiesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	url := srv.URL

	c := testClient(url)

	_, err := c.Download(context.Background(), url+"/gone", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 *APIError, got %v", err)
	}

	srv.Close()

	_, err = c.Download(context.Background(), url+"/gone", nil)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %v", err)
	}

	_, err = NewClient(Config{}).Download(context.Background(), url, nil)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError for missing token, got %v", err)
	}
}

func TestVerifyWebhookToken(t *testing.T) {
	c := NewClient(Config{VerifyToken: "secret"})

	challenge, err := c.VerifyWebhookToken("subscribe", "secret", "12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if challenge != "12345" {
		t.Fatalf("unexpected challenge %q", challenge)
	}

	if _, err := c.VerifyWebhookToken("subscribe", "wrong", "12345"); err == nil {
		t.Fatalf("expected error for wrong token")
	}
	if _, err := c.VerifyWebhookToken("unsubscribe", "secret", "12345"); err == nil {
		t.Fatalf("expected error for wrong mode")
	}
	if _, err := c.VerifyWebhookToken("", "", "12345"); err == nil {
		t.Fatalf("expected error for missing params")
	}
}
