package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/ortelius/scec-purl/model"
	"github.com/ortelius/scec-purl/purl"
	"github.com/ortelius/scec-purl/util"
)

var (
	serverURL string
	purlFile  string
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scec-purl",
	Short: "Purl canonicalization CLI for the SCEC purl catalog",
	Long: `A CLI tool for canonicalizing Package URLs and interacting with
the SCEC purl catalog API. Purls are validated and normalized
locally; the upload command posts the canonical forms to the server.`,
}

// canonCmd represents the canon command
var canonCmd = &cobra.Command{
	Use:   "canon [purl...]",
	Short: "Canonicalize one or more purls locally",
	Long: `Parses, validates, and normalizes each purl argument and prints
its canonical form. No server connection is needed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCanon,
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a YAML file of purls",
	Long: `Reads a YAML file with a top-level "purls" list, validates every
entry, and reports the canonical form or the validation error for each.
Exits non-zero if any entry is invalid.`,
	RunE: runCheck,
}

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a YAML file of purls to the catalog",
	Long: `Reads a YAML file with a top-level "purls" list and posts the
entries to the SCEC purl catalog API, which canonicalizes and stores them.`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(canonCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(uploadCmd)

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "SCEC purl catalog API server URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// File-based command flags
	checkCmd.Flags().StringVarP(&purlFile, "file", "f", "", "Path to YAML purl list (required)")
	checkCmd.MarkFlagRequired("file")
	uploadCmd.Flags().StringVarP(&purlFile, "file", "f", "", "Path to YAML purl list (required)")
	uploadCmd.MarkFlagRequired("file")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCanon(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, raw := range args {
		parsed, err := purl.FromString(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", raw, err)
			failed++
			continue
		}
		if verbose {
			fmt.Printf("%s -> %s\n", raw, parsed.ToString())
		} else {
			fmt.Println(parsed.ToString())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d purl(s) invalid", failed, len(args))
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	purls, err := util.LoadPurlFile(purlFile)
	if err != nil {
		return fmt.Errorf("failed to read purl file: %w", err)
	}

	if len(purls) == 0 {
		return fmt.Errorf("no purls found in %s", purlFile)
	}

	failed := 0
	for _, raw := range purls {
		parsed, err := purl.FromString(raw)
		if err != nil {
			fmt.Printf("✗ %-60s %v\n", raw, err)
			failed++
			continue
		}
		fmt.Printf("✓ %-60s %s\n", raw, parsed.ToString())
	}

	fmt.Printf("\n%d valid, %d invalid\n", len(purls)-failed, failed)

	if failed > 0 {
		return fmt.Errorf("%d purl(s) failed validation", failed)
	}
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	purls, err := util.LoadPurlFile(purlFile)
	if err != nil {
		return fmt.Errorf("failed to read purl file: %w", err)
	}

	if len(purls) == 0 {
		return fmt.Errorf("no purls found in %s", purlFile)
	}

	if verbose {
		fmt.Printf("Uploading %d purl(s) to %s\n", len(purls), serverURL)
	}

	request := model.PurlBatchRequest{Purls: purls}
	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	url := serverURL + "/api/v1/purls"
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var result model.PurlBatchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	for _, r := range result.Results {
		if r.Error != "" {
			fmt.Printf("✗ %-60s %s\n", r.Input, r.Error)
		} else if verbose {
			fmt.Printf("✓ %-60s %s\n", r.Input, r.Canonical)
		}
	}

	fmt.Printf("✓ Uploaded %d purl(s), %d rejected\n", result.Count, result.Failed)

	if result.Failed > 0 {
		return fmt.Errorf("%d purl(s) were rejected by the server", result.Failed)
	}
	return nil
}
