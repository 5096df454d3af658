package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/mlorentedev/promptdesk/internal/relay"
)

type modelInfo struct {
	ID      string `json:"id"`
	Backend string `json:"backend"`
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

type generateResponse struct {
	Text      string `json:"text"`
	Model     string `json:"model"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type result struct {
	Sample    string `json:"sample"`
	Chars     int    `json:"chars"`
	Run       int    `json:"run"`
	ElapsedMs int64  `json:"elapsed_ms"`
	WallMs    int64  `json:"wall_ms"`
	OutChars  int    `json:"out_chars"`
	Error     string `json:"error,omitempty"`
}

// client talks to a running promptdesk.
type client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func (c *client) do(method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

// firstModel returns the first model listed by /api/models, preferring
// local ones when localOnly is set.
func (c *client) firstModel(localOnly bool) (string, error) {
	resp, err := c.do(http.MethodGet, "/api/models", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var models []modelInfo
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		return "", fmt.Errorf("decode models: %w", err)
	}
	for _, m := range models {
		if !localOnly || m.Backend == "local" {
			return m.ID, nil
		}
	}
	return "", errors.New("no models available")
}

// generate sends one prompt and returns the reply and the wall-clock time.
// A folded relay fault is reported as an error.
func (c *client) generate(model, prompt string) (generateResponse, time.Duration, error) {
	payload, _ := json.Marshal(generateRequest{Prompt: prompt, Model: model})

	start := time.Now()
	resp, err := c.do(http.MethodPost, "/api/generate", bytes.NewReader(payload))
	wall := time.Since(start)
	if err != nil {
		return generateResponse{}, wall, err
	}
	defer resp.Body.Close()

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return generateResponse{}, wall, fmt.Errorf("decode reply: %w", err)
	}
	if strings.HasPrefix(gr.Text, relay.ErrorPrefix) {
		return gr, wall, errors.New(gr.Text)
	}
	return gr, wall, nil
}

func main() {
	url := flag.String("url", "http://localhost:7860", "promptdesk base URL")
	apiKey := flag.String("api-key", "", "API key (optional)")
	runs := flag.Int("runs", 3, "Number of runs per sample")
	model := flag.String("model", "", "Model to use (default: first local model listed)")
	quality := flag.Bool("quality", false, "Quality mode: print prompt and reply for each sample (1 run, no timing table)")
	jsonOut := flag.String("json", "", "Write results to JSON file (e.g. results.json)")
	warmup := flag.Bool("warmup", false, "Run one warmup request per sample before measuring")
	flag.Parse()

	c := &client{
		http:    &http.Client{Timeout: 5 * time.Minute},
		baseURL: strings.TrimRight(*url, "/"),
		apiKey:  *apiKey,
	}

	modelID := *model
	if modelID == "" {
		var err error
		if modelID, err = c.firstModel(true); err != nil {
			fmt.Fprintf(os.Stderr, "discover model: %v\n", err)
			os.Exit(1)
		}
	}

	if *quality {
		if !runQuality(c, modelID) {
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Benchmarking %s with model %s (%d runs per sample)\n", c.baseURL, modelID, *runs)

	var results []result
	for _, sample := range Samples {
		if *warmup {
			_, _, _ = c.generate(modelID, sample.Text)
		}
		for run := 1; run <= *runs; run++ {
			r := measure(c, modelID, sample, run)
			if r.Error != "" {
				fmt.Printf("  %-8s run %d  FAILED (%s)\n", sample.Name, run, r.Error)
			} else {
				fmt.Printf("  %-8s run %d  %6dms\n", sample.Name, run, r.ElapsedMs)
			}
			results = append(results, r)
		}
	}

	fmt.Println()
	printTable(results)
	failed := printSummary(results)

	if *jsonOut != "" {
		if err := writeReport(*jsonOut, results, c.baseURL, modelID); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", *jsonOut, err)
		} else {
			fmt.Printf("\nResults written to %s\n", *jsonOut)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func measure(c *client, modelID string, sample Sample, run int) result {
	r := result{Sample: sample.Name, Chars: len(sample.Text), Run: run}
	gr, wall, err := c.generate(modelID, sample.Text)
	r.WallMs = wall.Milliseconds()
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.ElapsedMs = gr.ElapsedMs
	r.OutChars = len(gr.Text)
	return r
}

func runQuality(c *client, modelID string) bool {
	fmt.Printf("Quality check against %s with model %s\n", c.baseURL, modelID)
	fmt.Println(strings.Repeat("=", 72))

	failures := 0
	for i, sample := range QualitySamples {
		fmt.Printf("\n--- %d/%d: %s ---\n", i+1, len(QualitySamples), sample.Name)
		fmt.Printf("PROMPT: %s\n", sample.Text)

		gr, _, err := c.generate(modelID, sample.Text)
		if err != nil {
			fmt.Printf("ERROR:  %s\n", err)
			failures++
			continue
		}
		fmt.Printf("REPLY:  %s\n", gr.Text)
		fmt.Printf("        [%dms, %d chars]\n", gr.ElapsedMs, len(gr.Text))
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 72))
	fmt.Printf("Done: %d/%d answered\n", len(QualitySamples)-failures, len(QualitySamples))
	return failures == 0
}

func printTable(results []result) {
	fmt.Println("| Sample | Chars | Run | Elapsed (ms) | Wall (ms) | Out Chars |")
	fmt.Println("|--------|-------|-----|--------------|-----------|-----------|")
	for _, r := range results {
		if r.Error != "" {
			fmt.Printf("| %-6s | %5d | %3d | %12s | %9d | %9s |\n", r.Sample, r.Chars, r.Run, "FAIL", r.WallMs, "-")
			continue
		}
		fmt.Printf("| %-6s | %5d | %3d | %12d | %9d | %9d |\n", r.Sample, r.Chars, r.Run, r.ElapsedMs, r.WallMs, r.OutChars)
	}
}

// printSummary prints latency percentiles over successful runs and returns
// the number of failed runs.
func printSummary(results []result) int {
	var elapsed []int64
	for _, r := range results {
		if r.Error == "" {
			elapsed = append(elapsed, r.ElapsedMs)
		}
	}
	failed := len(results) - len(elapsed)

	if len(elapsed) == 0 {
		fmt.Printf("\nSummary: all %d runs failed\n", len(results))
		return failed
	}

	slices.Sort(elapsed)
	fmt.Printf("\nSummary:\n")
	fmt.Printf("- p50: %dms\n", percentile(elapsed, 50))
	fmt.Printf("- p95: %dms\n", percentile(elapsed, 95))
	fmt.Printf("- max: %dms\n", elapsed[len(elapsed)-1])
	fmt.Printf("- runs: %d (%d ok, %d failed)\n", len(results), len(elapsed), failed)
	return failed
}

// percentile uses nearest-rank on an already sorted slice.
func percentile(sorted []int64, p int) int64 {
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

type report struct {
	Timestamp string   `json:"timestamp"`
	URL       string   `json:"url"`
	Model     string   `json:"model"`
	Results   []result `json:"results"`
}

func writeReport(path string, results []result, baseURL, modelID string) error {
	data, err := json.MarshalIndent(report{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       baseURL,
		Model:     modelID,
		Results:   results,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
