package prompt

import (
	"context"
	"errors"

	"github.com/opencode-ai/opencode-client/internal/storage"
)

// SaveHistory writes a mode's history through the storage collaborator.
func SaveHistory(ctx context.Context, store *storage.Storage, s *Store, mode Mode) error {
	return store.Put(ctx, []string{"prompt", "history", string(mode)}, s.History(mode))
}

// LoadHistory reads a mode's persisted history into the store. A missing
// file leaves the history empty.
func LoadHistory(ctx context.Context, store *storage.Storage, s *Store, mode Mode) error {
	var entries []*Draft
	if err := store.Get(ctx, []string{"prompt", "history", string(mode)}, &entries); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	s.SetHistory(mode, entries)
	return nil
}
