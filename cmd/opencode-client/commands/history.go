package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/opencode-client/internal/config"
	"github.com/opencode-ai/opencode-client/internal/prompt"
	"github.com/opencode-ai/opencode-client/internal/storage"
)

var historyMode string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect persisted prompt history",
	RunE:  runHistory,
}

var historyAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Append an entry to the persisted history",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryAdd,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyMode, "mode", string(prompt.ModeNormal), "Input mode (normal|shell)")
	historyCmd.AddCommand(historyAddCmd)
}

func historyStore() (*storage.Storage, error) {
	paths := config.GetPaths()
	if err := paths.EnsurePaths(); err != nil {
		return nil, err
	}
	return storage.New(paths.StoragePath()), nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	files, err := historyStore()
	if err != nil {
		return err
	}

	store := prompt.NewStore()
	mode := prompt.Mode(historyMode)
	if err := prompt.LoadHistory(context.Background(), files, store, mode); err != nil {
		return err
	}

	entries := store.History(mode)
	if len(entries) == 0 {
		fmt.Printf("no %s history\n", mode)
		return nil
	}
	for i, d := range entries {
		fmt.Printf("%3d  %s\n", i, d.Text())
	}
	return nil
}

func runHistoryAdd(cmd *cobra.Command, args []string) error {
	files, err := historyStore()
	if err != nil {
		return err
	}

	ctx := context.Background()
	store := prompt.NewStore()
	mode := prompt.Mode(historyMode)
	if err := prompt.LoadHistory(ctx, files, store, mode); err != nil {
		return err
	}

	store.AddToHistory(prompt.NewDraft(args[0]), mode)
	if err := prompt.SaveHistory(ctx, files, store, mode); err != nil {
		return err
	}

	fmt.Printf("added %s entry (%d total)\n", mode, len(store.History(mode)))
	return nil
}
