// Package cmd implements the scec-cli client for the catalog API,
// covering SBOM uploads and list/get operations.
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ortelius/scec-catalog/model"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	apiToken  string
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scec-cli",
	Short: "SBOM catalog CLI for managing products, components, and releases",
	Long: `A CLI tool for interacting with the SBOM catalog API.
Lists catalog entities and uploads CycloneDX SBOMs as release artifacts.`,
}

func init() {
	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "Catalog API server URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "API token (or set SCEC_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command
func Execute() {
	if apiToken == "" {
		apiToken = os.Getenv("SCEC_TOKEN")
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// doRequest sends an authenticated JSON request and returns the response body
func doRequest(method, url string, payload interface{}) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if verbose {
			fmt.Println("Request payload:")
			var prettyJSON bytes.Buffer
			if err := json.Indent(&prettyJSON, jsonData, "", "  "); err == nil {
				fmt.Println(prettyJSON.String())
			}
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+apiToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// ============================================================================
// upload command
// ============================================================================

var (
	sbomFile     string
	releaseKey   string
	artifactName string
)

// uploadCmd uploads a CycloneDX SBOM as a release artifact
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a CycloneDX SBOM to a release",
	Long: `Reads a CycloneDX SBOM file and attaches it to the given release
as an SBOM artifact. Duplicate content is detected server side.`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVarP(&sbomFile, "sbom", "s", "", "Path to SBOM file (required)")
	uploadCmd.Flags().StringVarP(&releaseKey, "release", "r", "", "Release key to attach to (required)")
	uploadCmd.Flags().StringVarP(&artifactName, "name", "n", "", "Artifact name (defaults to file name)")
	uploadCmd.MarkFlagRequired("sbom")
	uploadCmd.MarkFlagRequired("release")
}

func runUpload(cmd *cobra.Command, args []string) error {
	// Validate SBOM file exists
	if _, err := os.Stat(sbomFile); os.IsNotExist(err) {
		return fmt.Errorf("SBOM file not found: %s", sbomFile)
	}

	sbomContent, err := os.ReadFile(sbomFile)
	if err != nil {
		return fmt.Errorf("failed to read SBOM file: %w", err)
	}

	// Validate SBOM is valid JSON
	var sbomJSON map[string]any
	if err := json.Unmarshal(sbomContent, &sbomJSON); err != nil {
		return fmt.Errorf("SBOM file is not valid JSON: %w", err)
	}

	// Validate it's a CycloneDX SBOM
	if bomFormat, ok := sbomJSON["bomFormat"].(string); !ok || bomFormat != "CycloneDX" {
		return fmt.Errorf("SBOM must be in CycloneDX format (bomFormat field missing or incorrect)")
	}

	if verbose {
		fmt.Printf("Loaded CycloneDX SBOM from: %s\n", sbomFile)
		if specVersion, ok := sbomJSON["specVersion"].(string); ok {
			fmt.Printf("CycloneDX Spec Version: %s\n", specVersion)
		}
		if components, ok := sbomJSON["components"].([]interface{}); ok {
			fmt.Printf("Number of components: %d\n", len(components))
		}
	}

	name := artifactName
	if name == "" {
		name = sbomFile
	}

	artifact := model.NewArtifact()
	artifact.Name = name
	artifact.Content = json.RawMessage(sbomContent)

	url := fmt.Sprintf("%s/api/v1/releases/%s/artifacts", serverURL, releaseKey)
	status, body, err := doRequest(http.MethodPost, url, artifact)
	if err != nil {
		return fmt.Errorf("failed to upload artifact: %w", err)
	}
	if status != http.StatusCreated {
		return fmt.Errorf("server returned status %d: %s", status, string(body))
	}

	if verbose {
		fmt.Println("Server response:")
		fmt.Println(string(body))
	}

	fmt.Printf("✓ Successfully uploaded SBOM to release %s\n", releaseKey)
	return nil
}

// ============================================================================
// list commands
// ============================================================================

// listCmd groups the list subcommands
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entities",
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listProductsCmd)
	listCmd.AddCommand(listComponentsCmd)
}

type productList struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Total   int  `json:"total"`
	Items   []struct {
		Key      string `json:"_key"`
		Name     string `json:"name"`
		IsPublic bool   `json:"is_public"`
	} `json:"items"`
}

var listProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, body, err := doRequest(http.MethodGet, serverURL+"/api/v1/products", nil)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("server returned status %d: %s", status, string(body))
		}

		var result productList
		if err := json.Unmarshal(body, &result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		fmt.Printf("Found %d of %d product(s):\n\n", result.Count, result.Total)
		fmt.Printf("%-40s %-30s %-10s\n", "KEY", "NAME", "PUBLIC")
		fmt.Println("──────────────────────────────────────────────────────────────────────────────────")
		for _, product := range result.Items {
			fmt.Printf("%-40s %-30s %-10t\n", product.Key, product.Name, product.IsPublic)
		}
		return nil
	},
}

type componentList struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Total   int  `json:"total"`
	Items   []struct {
		Key           string `json:"_key"`
		Name          string `json:"name"`
		ComponentType string `json:"component_type"`
	} `json:"items"`
}

var listComponentsCmd = &cobra.Command{
	Use:   "components",
	Short: "List components in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, body, err := doRequest(http.MethodGet, serverURL+"/api/v1/components", nil)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("server returned status %d: %s", status, string(body))
		}

		var result componentList
		if err := json.Unmarshal(body, &result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		fmt.Printf("Found %d of %d component(s):\n\n", result.Count, result.Total)
		fmt.Printf("%-40s %-30s %-15s\n", "KEY", "NAME", "TYPE")
		fmt.Println("──────────────────────────────────────────────────────────────────────────────────")
		for _, component := range result.Items {
			fmt.Printf("%-40s %-30s %-15s\n", component.Key, component.Name, component.ComponentType)
		}
		return nil
	},
}

// ============================================================================
// get command
// ============================================================================

var (
	outputFile string
	sbomOnly   bool
)

// getCmd retrieves a release with its artifacts
var getCmd = &cobra.Command{
	Use:   "get [release-key]",
	Short: "Get a release and its artifacts",
	Long:  `Retrieves a release by key and displays its metadata and attached artifacts.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write first SBOM artifact to file (optional)")
	getCmd.Flags().BoolVar(&sbomOnly, "sbom-only", false, "Output only SBOM content")
}

func runGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	status, body, err := doRequest(http.MethodGet, fmt.Sprintf("%s/api/v1/releases/%s", serverURL, key), nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("release not found: %s", key)
	}
	if status != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", status, string(body))
	}

	var release model.ReleaseView
	if err := json.Unmarshal(body, &release); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if !sbomOnly {
		fmt.Printf("Release: %s\n", release.Key)
		fmt.Printf("Component: %s\n", release.ComponentKey)
		fmt.Printf("Version: %s\n", release.Version)
		fmt.Printf("Latest: %t\n", release.IsLatest)
		fmt.Printf("Prerelease: %t\n", release.IsPrerelease)
		fmt.Printf("Artifacts: %d\n", release.ArtifactsCount)
		fmt.Println()
	}

	if outputFile == "" && !sbomOnly {
		return nil
	}

	// Pull artifact content for output
	url := fmt.Sprintf("%s/api/v1/releases/%s/artifacts?include_content=true", serverURL, key)
	status, body, err = doRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", status, string(body))
	}

	var artifacts struct {
		Artifacts []model.Artifact `json:"artifacts"`
	}
	if err := json.Unmarshal(body, &artifacts); err != nil {
		return fmt.Errorf("failed to parse artifacts: %w", err)
	}

	for _, artifact := range artifacts.Artifacts {
		if artifact.ArtifactType != model.ArtifactTypeSBOM {
			continue
		}
		var prettyJSON bytes.Buffer
		if err := json.Indent(&prettyJSON, artifact.Content, "", "  "); err != nil {
			return fmt.Errorf("failed to format SBOM: %w", err)
		}
		if outputFile != "" {
			if err := os.WriteFile(outputFile, prettyJSON.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write SBOM to file: %w", err)
			}
			fmt.Printf("SBOM written to: %s\n", outputFile)
		} else {
			fmt.Println(prettyJSON.String())
		}
		return nil
	}

	return fmt.Errorf("release %s has no SBOM artifacts", key)
}
