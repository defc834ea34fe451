// Package prompt holds the in-progress prompt draft, per-mode submission
// history and the readline-style history navigation state machine.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Mode selects which history list submissions go to. The live draft and the
// navigation cursor are shared across modes.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeShell  Mode = "shell"
)

// ContentPart is one fragment of a draft: plain text, a file reference or an
// inline agent mention. Each carries a position range into the flattened
// draft text.
type ContentPart interface {
	ContentType() string
	clone() ContentPart
}

// TextContent is a run of plain text.
type TextContent struct {
	Type  string `json:"type"` // always "text"
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func (c *TextContent) ContentType() string { return "text" }

func (c *TextContent) clone() ContentPart {
	out := *c
	return &out
}

// Selection is a line range within a referenced file.
type Selection struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

// FileContent references a file, optionally narrowed to a selection.
type FileContent struct {
	Type      string     `json:"type"` // always "file"
	Path      string     `json:"path"`
	Selection *Selection `json:"selection,omitempty"`
	Start     int        `json:"start"`
	End       int        `json:"end"`
}

func (c *FileContent) ContentType() string { return "file" }

func (c *FileContent) clone() ContentPart {
	out := *c
	if c.Selection != nil {
		sel := *c.Selection
		out.Selection = &sel
	}
	return &out
}

// AgentContent is an inline agent mention.
type AgentContent struct {
	Type  string `json:"type"` // always "agent"
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func (c *AgentContent) ContentType() string { return "agent" }

func (c *AgentContent) clone() ContentPart {
	out := *c
	return &out
}

// Attachment is an image carried out-of-band from the positioned content.
type Attachment struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	MediaType string `json:"mediaType"`
	Data      []byte `json:"data"`
}

// NewAttachment creates an attachment with a fresh ULID.
func NewAttachment(filename, mediaType string, data []byte) Attachment {
	return Attachment{
		ID:        ulid.Make().String(),
		Filename:  filename,
		MediaType: mediaType,
		Data:      append([]byte(nil), data...),
	}
}

// Clone returns an independent copy of the attachment.
func (a Attachment) Clone() Attachment {
	out := a
	out.Data = append([]byte(nil), a.Data...)
	return out
}

// Draft is the uncommitted prompt content the user is composing. Drafts are
// value objects: history only ever stores and returns clones, so mutating a
// draft obtained from navigation never alters a stored entry.
type Draft struct {
	Parts []ContentPart
}

// NewDraft creates a draft holding a single text part.
func NewDraft(text string) *Draft {
	return &Draft{Parts: []ContentPart{
		&TextContent{Type: "text", Text: text, Start: 0, End: len(text)},
	}}
}

// Empty returns the canonical empty draft.
func Empty() *Draft {
	return &Draft{}
}

// Text flattens the draft to its text content.
func (d *Draft) Text() string {
	var b strings.Builder
	for _, part := range d.Parts {
		if text, ok := part.(*TextContent); ok {
			b.WriteString(text.Text)
		}
	}
	return b.String()
}

// Clone returns a deep, independent copy of the draft.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	out := &Draft{}
	if d.Parts != nil {
		out.Parts = make([]ContentPart, len(d.Parts))
		for i, part := range d.Parts {
			out.Parts[i] = part.clone()
		}
	}
	return out
}

// MarshalJSON encodes the draft's parts as a tagged array.
func (d *Draft) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Parts []ContentPart `json:"parts"`
	}{Parts: d.Parts})
}

// UnmarshalJSON rebuilds the tagged part array.
func (d *Draft) UnmarshalJSON(data []byte) error {
	var raw struct {
		Parts []json.RawMessage `json:"parts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Parts = nil
	for _, r := range raw.Parts {
		part, err := unmarshalContentPart(r)
		if err != nil {
			return err
		}
		d.Parts = append(d.Parts, part)
	}
	return nil
}

func unmarshalContentPart(data []byte) (ContentPart, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}

	switch tag.Type {
	case "text":
		var c TextContent
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &c, nil
	case "file":
		var c FileContent
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &c, nil
	case "agent":
		var c AgentContent
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &c, nil
	default:
		return nil, fmt.Errorf("unknown content part type %q", tag.Type)
	}
}
