package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/msto63/livelog/internal/model"
	"github.com/msto63/livelog/pkg/core/config"
	"github.com/msto63/livelog/pkg/core/health"
)

func TestLineDisplay_Append(t *testing.T) {
	entry := model.LogEntry{
		ID:        "1",
		Timestamp: "2026-10-02T12:00:00.000Z",
		Type:      "error",
		Tags:      []string{"db", "auth"},
		Data:      "connection refused",
	}

	tests := []struct {
		name string
		json bool
		want string
	}{
		{"text", false, "2026-10-02T12:00:00.000Z error [db,auth] connection refused\n"},
		{"json", true, `{"id":"1","timestamp":"2026-10-02T12:00:00.000Z","type":"error","tags":["db","auth"],"data":"connection refused"}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			d := &lineDisplay{out: out, status: &bytes.Buffer{}, json: tt.json}
			d.Append(entry)
			if out.String() != tt.want {
				t.Errorf("Append() = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestLineDisplay_StatusToStderr(t *testing.T) {
	out, status := &bytes.Buffer{}, &bytes.Buffer{}
	d := &lineDisplay{out: out, status: status}

	d.Alert("Kanal ungueltig")
	d.ChannelChanged("audit")

	if out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", out.String())
	}
	if !strings.Contains(status.String(), "Kanal ungueltig") || !strings.Contains(status.String(), "Kanal: audit") {
		t.Errorf("stderr = %q", status.String())
	}
}

func TestBuildHealth(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		status health.Status
	}{
		{"server up", http.StatusOK, health.StatusHealthy},
		{"server error", http.StatusServiceUnavailable, health.StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer srv.Close()

			cfg := config.Default()
			cfg.Server.BaseURL = srv.URL
			cfg.History.Backend = "memory"

			report := buildHealth(cfg).CheckWithTimeout(5 * time.Second)
			if report.Status != tt.status {
				t.Errorf("Status = %v, want %v", report.Status, tt.status)
			}
			if len(report.Checks) != 3 {
				t.Fatalf("len(Checks) = %d, want 3", len(report.Checks))
			}
			for _, c := range report.Checks {
				if (c.Name == "history" || c.Name == "host") && c.Status != health.StatusHealthy {
					t.Errorf("%s = %v (%s), want healthy", c.Name, c.Status, c.Message)
				}
			}
		})
	}
}

func TestBuildHealth_FileHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Server.BaseURL = srv.URL
	cfg.History.Backend = "file"
	cfg.History.Path = t.TempDir()

	report := buildHealth(cfg).CheckWithTimeout(5 * time.Second)
	if report.Status != health.StatusHealthy {
		t.Errorf("Status = %v, want healthy", report.Status)
	}
}

func TestBuildHealth_HostDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	cfg := config.Default()
	cfg.Server.BaseURL = srv.URL
	cfg.Server.ConnectTimeout.Duration = time.Second
	cfg.History.Backend = "memory"
	srv.Close()

	report := buildHealth(cfg).CheckWithTimeout(5 * time.Second)
	if report.Status != health.StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", report.Status)
	}
	for _, c := range report.Checks {
		if c.Name == "host" && c.Status != health.StatusUnhealthy {
			t.Errorf("host = %v, want unhealthy", c.Status)
		}
	}
}

func TestServerAddress(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"http://localhost:8080", "localhost:8080", false},
		{"http://logs.example.com", "logs.example.com:80", false},
		{"https://logs.example.com/base", "logs.example.com:443", false},
		{"http://[::1]:9000", "[::1]:9000", false},
		{"http://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := serverAddress(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("serverAddress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("serverAddress() = %v, want %v", got, tt.want)
			}
		})
	}
}
