package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/livelog/internal/channels"
	"github.com/msto63/livelog/pkg/core/config"
)

var channelsCmd = &cobra.Command{
	Use:     "channels",
	Aliases: []string{"channel", "ch"},
	Short:   "Verwaltet den Kanalverlauf",
}

var channelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Listet alle bekannten Kanaele",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(func(ctx context.Context, reg *channels.Registry) error {
			for _, ch := range reg.History() {
				marker := " "
				if ch == reg.Active() {
					marker = "*"
				}
				fmt.Printf("  %s %s\n", marker, ch)
			}
			return nil
		})
	},
}

var channelsAddCmd = &cobra.Command{
	Use:   "add <kanal>...",
	Short: "Fuegt Kanaele zum Verlauf hinzu",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(func(ctx context.Context, reg *channels.Registry) error {
			for _, ch := range args {
				if err := reg.Add(ctx, ch); err != nil {
					printError("Kanal "+ch, err)
					return err
				}
			}
			fmt.Printf("%d Kanaele im Verlauf\n", len(reg.History()))
			return nil
		})
	},
}

var channelsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Leert den Verlauf bis auf den Standardkanal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(func(ctx context.Context, reg *channels.Registry) error {
			if err := reg.Clear(ctx); err != nil {
				printError("Verlauf leeren", err)
				return err
			}
			fmt.Println("Verlauf geleert")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(channelsCmd)
	channelsCmd.AddCommand(channelsListCmd, channelsAddCmd, channelsClearCmd)
}

// withRegistry loads the history store and runs fn against it
func withRegistry(fn func(ctx context.Context, reg *channels.Registry) error) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("Konfiguration", err)
		return err
	}
	return runRegistry(cfg, fn)
}

func runRegistry(cfg *config.Config, fn func(ctx context.Context, reg *channels.Registry) error) error {
	logger, logCloser, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	st, stCloser, err := openStore(cfg)
	if err != nil {
		printError("Verlauf oeffnen", err)
		return err
	}
	defer stCloser.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reg := channels.New(st, cfg.Viewer.DefaultChannel, logger)
	reg.Load(ctx)
	return fn(ctx, reg)
}
