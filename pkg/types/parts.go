package types

import (
	"encoding/json"
	"fmt"
)

// Part represents a content fragment of a message.
type Part interface {
	PartType() string
	PartID() string
	PartMessageID() string
}

// PartTime contains timing information for a message part.
type PartTime struct {
	Start *int64 `json:"start,omitempty"`
	End   *int64 `json:"end,omitempty"`
}

// TextPart represents a text content fragment. Synthetic parts are injected
// by the server (compaction summaries, tool preambles) and are excluded from
// text extraction.
type TextPart struct {
	ID        string   `json:"id"`
	MessageID string   `json:"messageID"`
	Type      string   `json:"type"` // always "text"
	Text      string   `json:"text"`
	Synthetic bool     `json:"synthetic,omitempty"`
	Time      PartTime `json:"time,omitempty"`
}

func (p *TextPart) PartType() string      { return "text" }
func (p *TextPart) PartID() string        { return p.ID }
func (p *TextPart) PartMessageID() string { return p.MessageID }

// ReasoningPart represents extended thinking content.
type ReasoningPart struct {
	ID        string   `json:"id"`
	MessageID string   `json:"messageID"`
	Type      string   `json:"type"` // always "reasoning"
	Text      string   `json:"text"`
	Time      PartTime `json:"time,omitempty"`
}

func (p *ReasoningPart) PartType() string      { return "reasoning" }
func (p *ReasoningPart) PartID() string        { return p.ID }
func (p *ReasoningPart) PartMessageID() string { return p.MessageID }

// ToolStatus is the lifecycle status of a tool invocation.
type ToolStatus string

const (
	ToolPending   ToolStatus = "pending"
	ToolRunning   ToolStatus = "running"
	ToolCompleted ToolStatus = "completed"
	ToolError     ToolStatus = "error"
)

// ToolState is the state sub-object of a tool part. Transitions
// (pending→running→completed|error) are driven entirely by incoming events;
// each part.updated event replaces the state wholesale.
type ToolState struct {
	Status ToolStatus     `json:"status"`
	Title  string         `json:"title,omitempty"`
	Input  map[string]any `json:"input,omitempty"`
	Output string         `json:"output,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// ToolPart represents an invoked tool and its execution state.
type ToolPart struct {
	ID        string    `json:"id"`
	MessageID string    `json:"messageID"`
	Type      string    `json:"type"` // always "tool"
	CallID    string    `json:"callID"`
	Tool      string    `json:"tool"`
	State     ToolState `json:"state"`
	Time      PartTime  `json:"time,omitempty"`
}

func (p *ToolPart) PartType() string      { return "tool" }
func (p *ToolPart) PartID() string        { return p.ID }
func (p *ToolPart) PartMessageID() string { return p.MessageID }

// FilePart represents a file reference attached to a message.
type FilePart struct {
	ID        string `json:"id"`
	MessageID string `json:"messageID"`
	Type      string `json:"type"` // always "file"
	Filename  string `json:"filename"`
	MediaType string `json:"mediaType"`
	URL       string `json:"url"`
}

func (p *FilePart) PartType() string      { return "file" }
func (p *FilePart) PartID() string        { return p.ID }
func (p *FilePart) PartMessageID() string { return p.MessageID }

// ImagePart represents inline image content.
type ImagePart struct {
	ID        string `json:"id"`
	MessageID string `json:"messageID"`
	Type      string `json:"type"` // always "image"
	Filename  string `json:"filename,omitempty"`
	MediaType string `json:"mediaType"`
	URL       string `json:"url"`
}

func (p *ImagePart) PartType() string      { return "image" }
func (p *ImagePart) PartID() string        { return p.ID }
func (p *ImagePart) PartMessageID() string { return p.MessageID }

// AgentPart represents an inline agent mention.
type AgentPart struct {
	ID        string `json:"id"`
	MessageID string `json:"messageID"`
	Type      string `json:"type"` // always "agent"
	Name      string `json:"name"`
}

func (p *AgentPart) PartType() string      { return "agent" }
func (p *AgentPart) PartID() string        { return p.ID }
func (p *AgentPart) PartMessageID() string { return p.MessageID }

// UnmarshalPart unmarshals a JSON part into the appropriate variant.
// Unknown part types are an error; the caller decides whether to drop them.
func UnmarshalPart(data []byte) (Part, error) {
	var raw struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	switch raw.Type {
	case "text":
		var p TextPart
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case "reasoning":
		var p ReasoningPart
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case "tool":
		var p ToolPart
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case "file":
		var p FilePart
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case "image":
		var p ImagePart
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case "agent":
		var p AgentPart
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &p, nil
	default:
		return nil, fmt.Errorf("unknown part type %q", raw.Type)
	}
}
