package main

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/strelkov/apexcoach/internal/config"
)

// --- status ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show apexcoach system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printError("config error: %v", err)
			return nil
		}

		serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
		client := &http.Client{Timeout: 2 * time.Second}

		resp, err := client.Get(serverURL + "/api/health")
		if err != nil {
			printStatus("Server", "stopped")
		} else {
			resp.Body.Close()
			if resp.StatusCode == 200 {
				printStatus("Server", "running on port %d", cfg.Server.Port)
			} else {
				printStatus("Server", "error (HTTP %d)", resp.StatusCode)
			}
		}

		printStatus("Gateway", "%s (%s)", cfg.Gateway.Provider, cfg.Gateway.Model)
		printStatus("Data dir", "%s", cfg.Storage.DataDir)
		printStatus("Max upload", "%d bytes", cfg.Storage.MaxUploadBytes)
		return nil
	},
}

// --- rubric ---

var rubricCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Show the interview skill rubric",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/rubric")
		if err != nil {
			return err
		}

		var body struct {
			Skills map[string]string `json:"skills"`
		}
		if err := decodeJSON(resp, &body); err != nil {
			return err
		}

		keys := make([]string, 0, len(body.Skills))
		for k := range body.Skills {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Printf("%s\n  %s\n", colorize(colorBold, k), body.Skills[k])
		}
		return nil
	},
}

// --- artifacts ---

var artifactsCmd = &cobra.Command{
	Use:   "artifacts <session-id>",
	Short: "List workbook artifacts submitted in a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/session/"+args[0]+"/artifacts")
		if err != nil {
			return err
		}

		var body struct {
			Artifacts []struct {
				ID          string `json:"id"`
				Source      string `json:"source"`
				Filename    string `json:"filename"`
				SizeBytes   int64  `json:"size_bytes"`
				UploadedAt  string `json:"uploaded_at"`
				Description string `json:"description"`
				URL         string `json:"url"`
			} `json:"artifacts"`
		}
		if err := decodeJSON(resp, &body); err != nil {
			return err
		}

		if len(body.Artifacts) == 0 {
			fmt.Println("No artifacts found.")
			return nil
		}

		for _, a := range body.Artifacts {
			label := a.Filename
			if a.Source == "link" {
				label = a.URL
			}
			fmt.Printf("%s  %s  %s\n", colorize(colorCyan, a.ID[:8]), a.UploadedAt, label)
			if a.Description != "" {
				fmt.Printf("  %s\n", a.Description)
			}
		}
		return nil
	},
}
