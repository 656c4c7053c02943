package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "fetch the Prometheus exposition from a running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchStats(cmd.OutOrStdout(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "http://localhost:9090", "base address of a running modesd's metrics listener")
	return cmd
}

func fetchStats(w io.Writer, addr string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(addr + "/metrics")
	if err != nil {
		return fmt.Errorf("stats: fetch: %w", err)
	}
	defer resp.Body.Close()

	_, err = io.Copy(w, resp.Body)
	return err
}
