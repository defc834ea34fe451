package prompt

import (
	"strings"
	"sync"
)

// HistoryCapacity bounds each mode's history list. Inserting beyond the
// bound evicts the oldest entry.
const HistoryCapacity = 100

// Direction is a history navigation direction.
type Direction string

const (
	// Up recalls older entries.
	Up Direction = "up"
	// Down returns toward the live draft.
	Down Direction = "down"
)

// Store holds the live prompt state: current mode, image attachments,
// per-mode history and the navigation cursor.
//
// The cursor is historyIndex: -1 means "not navigating, viewing the live
// draft"; otherwise it indexes the current mode's history, newest first.
// savedDraft holds the in-progress draft snapshotted when navigation began
// and is non-nil only while navigating.
type Store struct {
	mu sync.Mutex

	mode         Mode
	history      map[Mode][]*Draft
	historyIndex int
	savedDraft   *Draft
	attachments  []Attachment
}

// NewStore creates a prompt store in normal mode with empty history.
func NewStore() *Store {
	return &Store{
		mode:         ModeNormal,
		history:      make(map[Mode][]*Draft),
		historyIndex: -1,
	}
}

// SetMode switches the input mode. Histories are kept per mode; the live
// draft and cursor are untouched.
func (s *Store) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// Mode returns the current input mode.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// AddAttachment appends an image attachment.
func (s *Store) AddAttachment(a Attachment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments = append(s.attachments, a.Clone())
}

// RemoveAttachment removes the attachment with the given id. Unknown ids
// are a no-op.
func (s *Store) RemoveAttachment(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.attachments {
		if a.ID == id {
			s.attachments = append(s.attachments[:i], s.attachments[i+1:]...)
			return
		}
	}
}

// ClearAttachments drops all attachments.
func (s *Store) ClearAttachments() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments = nil
}

// Attachments returns copies of the current attachments.
func (s *Store) Attachments() []Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Attachment, 0, len(s.attachments))
	for _, a := range s.attachments {
		out = append(out, a.Clone())
	}
	return out
}

// AddToHistory commits a draft to the given mode's history. Blank drafts
// and drafts whose flattened text equals the newest entry are suppressed.
// The stored entry is a deep copy; later mutation of the submitted draft
// cannot alter it.
func (s *Store) AddToHistory(draft *Draft, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := draft.Text()
	if strings.TrimSpace(text) == "" {
		return
	}

	entries := s.history[mode]
	if len(entries) > 0 && entries[0].Text() == text {
		return
	}

	entries = append([]*Draft{draft.Clone()}, entries...)
	if len(entries) > HistoryCapacity {
		entries = entries[:HistoryCapacity]
	}
	s.history[mode] = entries
}

// NavigateHistory moves the cursor through the current mode's history,
// readline style. It returns the draft to display and true, or nil and
// false when the input is a no-op (empty history, or clamped at a
// boundary). The returned draft is always an independent copy.
//
// Going up from the live draft snapshots current so a full round trip
// (up...down...) restores the in-progress edit. Going down past the newest
// entry returns the snapshot, or the canonical empty draft when navigation
// started without one.
func (s *Store) NavigateHistory(direction Direction, current *Draft) (*Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.history[s.mode]

	switch direction {
	case Up:
		if s.historyIndex == -1 {
			if len(entries) == 0 {
				return nil, false
			}
			s.savedDraft = current.Clone()
			s.historyIndex = 0
			return entries[0].Clone(), true
		}
		if s.historyIndex < len(entries)-1 {
			s.historyIndex++
			return entries[s.historyIndex].Clone(), true
		}
		// Already at the oldest entry: clamp, no wraparound.
		return nil, false

	case Down:
		if s.historyIndex > 0 {
			s.historyIndex--
			return entries[s.historyIndex].Clone(), true
		}
		if s.historyIndex == 0 {
			s.historyIndex = -1
			if s.savedDraft != nil {
				saved := s.savedDraft
				s.savedDraft = nil
				return saved, true
			}
			return Empty(), true
		}
		// Not navigating: nothing to return to.
		return nil, false
	}

	return nil, false
}

// ResetNavigation returns the cursor to the live draft and discards any
// saved snapshot, without touching history content.
func (s *Store) ResetNavigation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyIndex = -1
	s.savedDraft = nil
}

// Reset returns the store to normal mode, clears navigation state and
// attachments. History persists across resets.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeNormal
	s.historyIndex = -1
	s.savedDraft = nil
	s.attachments = nil
}

// History returns copies of a mode's history entries, newest first.
func (s *Store) History(mode Mode) []*Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.history[mode]
	out := make([]*Draft, 0, len(entries))
	for _, d := range entries {
		out = append(out, d.Clone())
	}
	return out
}

// SetHistory replaces a mode's history wholesale, cloning every entry.
// Used when loading persisted history at startup.
func (s *Store) SetHistory(mode Mode, entries []*Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]*Draft, 0, len(entries))
	for _, d := range entries {
		list = append(list, d.Clone())
	}
	if len(list) > HistoryCapacity {
		list = list[:HistoryCapacity]
	}
	s.history[mode] = list
}
