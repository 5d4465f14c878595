package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/livelog/internal/channels"
	"github.com/msto63/livelog/internal/store"
	"github.com/msto63/livelog/internal/stream/sse"
	"github.com/msto63/livelog/pkg/core/config"
	"github.com/msto63/livelog/pkg/core/health"
	"github.com/msto63/livelog/pkg/core/version"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prueft Log-Server und Kanalverlauf",
	Long: `Prueft die Erreichbarkeit des Log-Servers und des
konfigurierten Speichers fuer den Kanalverlauf.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("Konfiguration", err)
		return err
	}

	fmt.Println("livelog Status")
	fmt.Println("==============")
	fmt.Println()

	report := buildHealth(cfg).CheckWithTimeout(cfg.Server.ConnectTimeout.Duration + 2*time.Second)

	for _, check := range report.Checks {
		icon := "[+]"
		switch check.Status {
		case health.StatusDegraded:
			icon = "[~]"
		case health.StatusUnhealthy, health.StatusUnknown:
			icon = "[-]"
		}
		fmt.Printf("  %s %-10s %s (%s)\n", icon, check.Name, check.Message, check.Duration.Round(time.Millisecond))
	}

	fmt.Println()
	fmt.Printf("Gesamt: %s\n", report.Status)
	if report.Status == health.StatusUnhealthy {
		return fmt.Errorf("status %s", report.Status)
	}
	return nil
}

// buildHealth registers the server and history checks
func buildHealth(cfg *config.Config) *health.Registry {
	reg := health.NewRegistry("livelog", version.Version)

	target, err := sse.New(cfg.Server.BaseURL, 0).URL(cfg.Viewer.DefaultChannel)
	if err != nil {
		target = cfg.SubscribeURL()
	}
	reg.Register(health.HTTPCheck("server", target, cfg.Server.ConnectTimeout.Duration))
	if addr, err := serverAddress(cfg.Server.BaseURL); err == nil {
		reg.Register(health.TCPCheck("host", addr, cfg.Server.ConnectTimeout.Duration))
	}

	reg.RegisterFunc("history", func(ctx context.Context) health.CheckResult {
		result := health.CheckResult{
			Name:    "history",
			Details: map[string]interface{}{"backend": cfg.History.Backend},
		}

		st, closer, err := openStore(cfg)
		if err != nil {
			result.Status = health.StatusUnhealthy
			result.Message = err.Error()
			return result
		}
		defer closer.Close()

		if p, ok := st.(interface{ Ping(context.Context) error }); ok {
			if err := p.Ping(ctx); err != nil {
				result.Status = health.StatusUnhealthy
				result.Message = err.Error()
				return result
			}
		}
		if _, err := st.Get(ctx, channels.HistoryKey); err != nil && !errors.Is(err, store.ErrNotFound) {
			result.Status = health.StatusDegraded
			result.Message = err.Error()
			return result
		}

		result.Status = health.StatusHealthy
		result.Message = cfg.History.Backend + " ok"
		return result
	})

	return reg
}

// serverAddress returns host:port of baseURL, defaulting the port by scheme
func serverAddress(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("no host in %q", baseURL)
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
