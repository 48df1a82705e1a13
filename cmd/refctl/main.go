// Package main implements the refctl CLI for manual operations against the
// reflectd HTTP server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the reflectd HTTP server
	serverURL string
	// deviceType filters stats output
	deviceType string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refctl",
	Short: "CLI for reflectd HTTP server operations",
	Long: `refctl is a command-line interface for interacting with the reflectd HTTP server.
It provides commands for requesting mapping suggestions, inspecting pattern
memory statistics, and running batch analyses.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8086", "reflectd server URL")
	statsCmd.Flags().StringVar(&deviceType, "device-type", "", "restrict memory statistics to one device type")
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check reflectd server health",
	Long: `Check the health status of the reflectd HTTP server.

Examples:
  # Check health
  refctl health

  # Check health on a different server
  refctl health --server http://localhost:9191`,
	RunE: runHealth,
}

// suggestCmd asks the server for a mapping suggestion
var suggestCmd = &cobra.Command{
	Use:   "suggest <pointName> <deviceType>",
	Short: "Suggest a mapping for a point",
	Long: `Ask reflectd for the best mapping strategy and, when pattern memory is
confident, a concrete historical target for a point.

Examples:
  refctl suggest "FCU_01.RoomTemp" FCU`,
	Args: cobra.ExactArgs(2),
	RunE: runSuggest,
}

// statsCmd fetches reflection, memory, and strategy statistics
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reflectd statistics",
	Long: `Fetch reflection, pattern memory, and strategy statistics.

Examples:
  refctl stats
  refctl stats --device-type AHU`,
	RunE: runStats,
}

// analyzeCmd posts a batch of mappings for diagnosis
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a batch of mappings",
	Long: `Post a JSON file (or stdin) holding {"mappings": [...]} to the batch
analysis endpoint and print the resulting report.

Examples:
  refctl analyze mappings.json
  cat mappings.json | refctl analyze -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

// HealthResponse matches pkg/server HealthResponse
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/health", serverURL)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var healthResp HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Server Status: %s\n", healthResp.Status)
	fmt.Printf("Server URL: %s\n", serverURL)
	return nil
}

// runSuggest handles the suggest command
func runSuggest(cmd *cobra.Command, args []string) error {
	reqBody := map[string]string{
		"pointName":  args[0],
		"deviceType": args[1],
	}
	return postAndPrint("/v1/suggest", reqBody)
}

// runStats handles the stats command
func runStats(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/v1/stats", serverURL)
	if deviceType != "" {
		url += "?device_type=" + deviceType
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	defer resp.Body.Close()

	return printJSONResponse(resp)
}

// runAnalyze handles the analyze command
func runAnalyze(cmd *cobra.Command, args []string) error {
	var content []byte
	var err error

	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		content, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}
	if len(content) == 0 {
		return fmt.Errorf("no mappings to analyze")
	}

	var body json.RawMessage = content
	return postAndPrint("/v1/analyze/mappings", body)
}

// postAndPrint sends a JSON POST and pretty-prints the JSON response.
func postAndPrint(path string, body any) error {
	reqJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := serverURL + path
	httpReq, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(reqJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	return printJSONResponse(resp)
}

// printJSONResponse pretty-prints a successful JSON response to stdout.
func printJSONResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		// Not JSON: print as-is.
		fmt.Println(string(body))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
