package extractor

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractRequest is the body posted to the extraction service
type ExtractRequest struct {
	URL string `json:"url"`
}

// ExtractResponse is the extraction service reply
type ExtractResponse struct {
	Success bool    `json:"success"`
	Msg     Message `json:"msg"`
}

// Message is the polymorphic msg field. On failure the service sends a
// plain string, on success an object holding the video descriptors.
type Message struct {
	Text   string
	Videos []Descriptor
}

// Descriptor describes one downloadable rendition
type Descriptor struct {
	Video     string `json:"video"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type messageObject struct {
	Video []Descriptor `json:"video"`
}

// rawMessageObject keeps each descriptor undecoded so one odd field does
// not cost the whole list
type rawMessageObject struct {
	Video []json.RawMessage `json:"video"`
}

// UnmarshalJSON accepts a string, an object with a video list, or null.
// Any other shape decodes to an empty message.
func (m *Message) UnmarshalJSON(data []byte) error {
	*m = Message{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		return json.Unmarshal(trimmed, &m.Text)
	case '{':
		var obj rawMessageObject
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			// a malformed descriptor list is treated as no video
			return nil
		}
		if obj.Video != nil {
			m.Videos = make([]Descriptor, 0, len(obj.Video))
		}
		for _, raw := range obj.Video {
			m.Videos = append(m.Videos, decodeDescriptor(raw))
		}
	}
	return nil
}

// decodeDescriptor reads the string fields it knows and ignores the rest.
// A descriptor that is not an object keeps its slot with no video.
func decodeDescriptor(raw json.RawMessage) Descriptor {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Descriptor{}
	}

	var d Descriptor
	if v, ok := fields["video"]; ok {
		_ = json.Unmarshal(v, &d.Video)
	}
	if v, ok := fields["thumbnail"]; ok {
		_ = json.Unmarshal(v, &d.Thumbnail)
	}
	return d
}

// MarshalJSON mirrors UnmarshalJSON so fake backends can encode responses
func (m Message) MarshalJSON() ([]byte, error) {
	if m.Videos != nil {
		return json.Marshal(messageObject{Video: m.Videos})
	}
	if m.Text != "" {
		return json.Marshal(m.Text)
	}
	return []byte("null"), nil
}

// FirstVideoURL returns the trimmed video URL of the first descriptor
func (r *ExtractResponse) FirstVideoURL() (string, bool) {
	if r == nil || len(r.Msg.Videos) == 0 {
		return "", false
	}
	u := strings.TrimSpace(r.Msg.Videos[0].Video)
	return u, u != ""
}

// ErrorMessage returns the failure text sent by the service, if any
func (r *ExtractResponse) ErrorMessage() string {
	if r == nil {
		return ""
	}
	return r.Msg.Text
}
