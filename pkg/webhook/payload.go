package webhook

// Payload mirrors the structure sent by Meta's WhatsApp Cloud API webhook
// callbacks.
type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents one entry payload within the webhook body.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change captures the actual notification contents.
type Change struct {
	Value Value  `json:"value"`
	Field string `json:"field"`
}

// Value is the variant object of a change: it carries exactly one of
// messages, statuses, or (for session-start notifications) contacts alone.
type Value struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         Metadata         `json:"metadata"`
	Contacts         []Contact        `json:"contacts"`
	Messages         []InboundMessage `json:"messages"`
	Statuses         []Status         `json:"statuses"`
	Errors           []ErrorDetail    `json:"errors"`
}

// Metadata contains the phone identifiers of the receiving business account.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact represents the WhatsApp user on the other side of the conversation.
type Contact struct {
	Profile Profile `json:"profile"`
	WaID    string  `json:"wa_id"`
}

// Profile contains the human-friendly contact name.
type Profile struct {
	Name string `json:"name"`
}

// InboundMessage aggregates the inbound message shapes the platform delivers.
// Exactly one of the type-specific fields is populated, named after Type.
type InboundMessage struct {
	From        string       `json:"from"`
	ID          string       `json:"id"`
	Timestamp   string       `json:"timestamp"`
	Type        string       `json:"type"`
	Text        *Text        `json:"text,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
	Image       *Media       `json:"image,omitempty"`
	Video       *Media       `json:"video,omitempty"`
	Audio       *Media       `json:"audio,omitempty"`
	Document    *Media       `json:"document,omitempty"`
	Sticker     *Media       `json:"sticker,omitempty"`
	Location    *Location    `json:"location,omitempty"`
	Reaction    *Reaction    `json:"reaction,omitempty"`
}

// Text contains a text message body.
type Text struct {
	Body string `json:"body"`
}

// Interactive represents button/list/flow replies.
type Interactive struct {
	Type        string       `json:"type"`
	ButtonReply *ButtonReply `json:"button_reply,omitempty"`
	ListReply   *ListReply   `json:"list_reply,omitempty"`
	NfmReply    *NfmReply    `json:"nfm_reply,omitempty"`
}

// ButtonReply models a pressed quick-reply button.
type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ListReply models a selected list item.
type ListReply struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NfmReply carries the response payload of a completed WhatsApp Flow.
type NfmReply struct {
	Name            string `json:"name"`
	Body            string `json:"body"`
	ResponsePayload string `json:"response_json"`
}

// Media represents media attachment metadata.
type Media struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Sha256   string `json:"sha256"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Location represents a shared location pin.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// Reaction represents an emoji reaction to a previous message.
type Reaction struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

// Status represents a delivery/read receipt.
type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// ErrorDetail exposes errors attached to webhook notifications.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
