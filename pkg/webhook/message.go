package webhook

// Message is a flat projection of one inbound event, convenient for storage
// or handler code that does not want to probe accessors itself.
type Message struct {
	ID        string       `json:"id" bson:"message_id"`
	From      string       `json:"from" bson:"from"`
	Name      string       `json:"name" bson:"name"`
	Content   string       `json:"content" bson:"content"`
	Type      string       `json:"type" bson:"type"`
	Timestamp string       `json:"timestamp" bson:"timestamp"`
	Image     *Media       `json:"image,omitempty" bson:"image,omitempty"`
	Video     *Media       `json:"video,omitempty" bson:"video,omitempty"`
	Audio     *Media       `json:"audio,omitempty" bson:"audio,omitempty"`
	Document  *Media       `json:"document,omitempty" bson:"document,omitempty"`
	Sticker   *Media       `json:"sticker,omitempty" bson:"sticker,omitempty"`
	Location  *Location    `json:"location,omitempty" bson:"location,omitempty"`
	Reaction  *Reaction    `json:"reaction,omitempty" bson:"reaction,omitempty"`
	Inter     *Interactive `json:"interactive,omitempty" bson:"interactive,omitempty"`
}

// BuildMessage assembles the flat projection for one event. Absent text
// content defaults to the empty string and an absent type to "text", matching
// the platform's implicit defaults.
func BuildMessage(p Payload) Message {
	m := Message{Type: "text"}

	if id, ok := MessageID(p); ok {
		m.ID = id
	}
	if from, ok := MessageAuthor(p); ok {
		m.From = from
	}
	if name, ok := SenderName(p); ok {
		m.Name = name
	}
	if body, ok := MessageText(p); ok {
		m.Content = body
	}
	if kind, ok := MessageType(p); ok && kind != "" {
		m.Type = kind
	}
	if ts, ok := MessageTimestamp(p); ok {
		m.Timestamp = ts
	}
	if media, ok := MessageImage(p); ok {
		m.Image = media
	}
	if media, ok := MessageVideo(p); ok {
		m.Video = media
	}
	if media, ok := MessageAudio(p); ok {
		m.Audio = media
	}
	if media, ok := MessageDocument(p); ok {
		m.Document = media
	}
	if media, ok := MessageSticker(p); ok {
		m.Sticker = media
	}
	if loc, ok := MessageLocation(p); ok {
		m.Location = loc
	}
	if reaction, ok := MessageReaction(p); ok {
		m.Reaction = reaction
	}
	if inter, ok := MessageInteractive(p); ok {
		m.Inter = inter
	}
	return m
}
