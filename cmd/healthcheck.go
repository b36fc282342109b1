package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var (
	healthcheckURL     string
	healthcheckTimeout time.Duration
)

// healthcheckCmd probes a running server, for container health checks.
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Checks that a running server answers its health endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), healthcheckTimeout)
		defer cancel()
		return probe(ctx, healthcheckURL)
	},
}

func probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %s", resp.Status)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if body.Status != "OK" {
		return fmt.Errorf("unexpected health status %q", body.Status)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)

	healthcheckCmd.Flags().StringVar(&healthcheckURL, "url", "http://localhost:3000/api/health", "health endpoint to probe")
	healthcheckCmd.Flags().DurationVar(&healthcheckTimeout, "timeout", 5*time.Second, "request timeout")
}
