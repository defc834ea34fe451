package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/opencode-client/internal/api"
	"github.com/opencode-ai/opencode-client/internal/config"
	"github.com/opencode-ai/opencode-client/internal/event"
	"github.com/opencode-ai/opencode-client/internal/logging"
	"github.com/opencode-ai/opencode-client/internal/state"
	"github.com/opencode-ai/opencode-client/internal/status"
	"github.com/opencode-ai/opencode-client/internal/storage"
	clientsync "github.com/opencode-ai/opencode-client/internal/sync"
	"github.com/opencode-ai/opencode-client/pkg/types"
)

var tailSnapshot bool

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow the server's event stream",
	Long: `Connect to the server, keep the local entity cache in sync with the
event stream and print a status line for every change.`,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailSnapshot, "snapshot", false, "Persist a cache snapshot on exit")
}

func runTail(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := api.New(cfg.Server)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}

	store := state.New()
	bus := event.NewBus()
	defer bus.Close()

	applier := clientsync.NewApplier(bus, store)
	applier.Start(ctx)
	defer applier.Stop()

	unsub := bus.SubscribeAll(printEvent)
	defer unsub()

	logging.Info().Str("server", cfg.Server).Msg("tailing events")
	err = clientsync.NewSSEClient(cfg.Server, bus).Run(ctx)

	if tailSnapshot {
		if err := persistSnapshot(store); err != nil {
			logging.Warn().Err(err).Msg("snapshot persistence failed")
		}
	}

	if ctx.Err() != nil {
		return nil // interrupted by the user
	}
	return err
}

func persistSnapshot(store *state.Store) error {
	paths := config.GetPaths()
	if err := paths.EnsurePaths(); err != nil {
		return err
	}
	files := storage.New(paths.StoragePath())
	return files.Put(context.Background(), []string{"snapshots", "cache"}, store.Snapshot())
}

// printEvent renders one human-readable line per event.
func printEvent(e event.Event) {
	switch data := e.Data.(type) {
	case event.SessionsListedData:
		fmt.Printf("project %s  %d sessions\n", data.ProjectID, len(data.Sessions))
	case event.SessionUpdatedData:
		if data.Info != nil {
			fmt.Printf("session %s  %q\n", data.Info.ID, data.Info.Title)
		}
	case event.SessionDeletedData:
		fmt.Printf("session %s  deleted\n", data.SessionID)
	case event.SessionStatusData:
		fmt.Printf("session %s  %s\n", data.SessionID, formatStatus(data.Status))
	case event.MessageCreatedData:
		printMessage(data.Info)
	case event.MessageUpdatedData:
		printMessage(data.Info)
	case event.PartCreatedData:
		printPart(data.Part)
	case event.PartUpdatedData:
		printPart(data.Part)
	}
}

func printMessage(info *types.Message) {
	if info == nil {
		return
	}
	line := fmt.Sprintf("message %s  role=%s", info.ID, info.Role)
	if status.IsStreaming(info) {
		line += "  streaming"
	}
	if name, msg := status.ErrorDetail(info); name != "" {
		line += fmt.Sprintf("  error=%s %s", name, msg)
	}
	fmt.Println(line)
}

func printPart(part types.Part) {
	if tool, ok := part.(*types.ToolPart); ok {
		fmt.Printf("tool %s  %s\n", tool.Tool, status.ToolStatusText(tool.State))
	}
}

func formatStatus(s types.SessionStatus) string {
	switch s.Kind {
	case types.StatusRetryKind:
		return fmt.Sprintf("retry (attempt %d)", s.Attempt)
	default:
		return string(s.Kind)
	}
}
