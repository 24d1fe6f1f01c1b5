// Package main implements the slotsmith CLI for proposing meeting times.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/slotsmith/slotsmith/pkg/gemini"
	"github.com/slotsmith/slotsmith/pkg/report"
	"github.com/slotsmith/slotsmith/pkg/scaledown"
	"github.com/slotsmith/slotsmith/pkg/slotsmith"
)

var (
	requestFile  = flag.String("request", "", "Path to a JSON scheduling request (default: stdin)")
	topN         = flag.Int("top", 0, "Override max_candidates from the request")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging and score breakdowns")
	jsonOut      = flag.Bool("json", false, "Print the raw JSON response instead of the report")
	brief        = flag.Bool("brief", false, "Ask Gemini for a natural-language briefing of the result")
	geminiAPIKey = flag.String("gemini-key", "", "Gemini API key (or set GEMINI_API_KEY)")
	geminiModel  = flag.String("gemini-model", "", "Gemini model to use (or set GEMINI_MODEL)")
	scaledownURL = flag.String("scaledown-url", "", "Prompt compression service URL (or set SCALEDOWN_URL)")
	scaledownKey = flag.String("scaledown-key", "", "Prompt compression API key (or set SCALEDOWN_API_KEY)")
	version      = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("slotsmith CLI v1.2.0")
		return
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *geminiAPIKey == "" {
		*geminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if *geminiModel == "" {
		*geminiModel = os.Getenv("GEMINI_MODEL")
	}
	if *scaledownURL == "" {
		*scaledownURL = os.Getenv("SCALEDOWN_URL")
	}
	if *scaledownKey == "" {
		*scaledownKey = os.Getenv("SCALEDOWN_API_KEY")
	}

	req, err := readRequest(*requestFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *topN > 0 {
		req.Constraints.MaxCandidates = *topN
	}
	req.Description = scaledown.NormalizeDescription(req.Description)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	scheduler := slotsmith.New(slotsmith.WithLogger(logger))
	resp, err := scheduler.Schedule(ctx, req)
	if err != nil {
		logger.Error("scheduling failed", "error", err)
		os.Exit(1)
	}

	if *jsonOut {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(resp); err != nil {
			logger.Error("encoding response failed", "error", err)
			os.Exit(1)
		}
		return
	}

	fmt.Print(report.Render(resp, *verbose))

	if *brief {
		printBriefing(ctx, resp, len(req.Participants), logger)
	}
}

func readRequest(path string) (*slotsmith.Request, error) {
	var reader io.Reader = os.Stdin
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening request file: %w", err)
		}
		defer file.Close() //nolint:errcheck // read-only file
		reader = file
	}

	var req slotsmith.Request
	if err := json.NewDecoder(reader).Decode(&req); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	return &req, nil
}

func printBriefing(ctx context.Context, resp *slotsmith.Response, participants int, logger *slog.Logger) {
	if *geminiAPIKey == "" {
		fmt.Fprintln(os.Stderr, "Briefing requires -gemini-key or GEMINI_API_KEY")
		return
	}

	prompt := gemini.BriefingPrompt(resp.Candidates, resp.NegotiationRounds, participants)

	compressor := scaledown.New(*scaledownURL, *scaledownKey, logger)
	result, err := compressor.Compress(ctx, "meeting scheduling briefing", prompt)
	if err == nil && result.Content != "" {
		prompt = result.Content
		if !result.Fallback {
			logger.Debug("briefing prompt compressed",
				"tokens_saved", result.TokensSaved, "ratio", result.Ratio)
		}
	}

	client := gemini.NewClient(*geminiAPIKey, *geminiModel)
	briefing, err := client.Brief(ctx, prompt, logger)
	if err != nil {
		logger.Error("briefing failed", "error", err)
		return
	}

	fmt.Println("\n🤖 Briefing")
	fmt.Println("Recommendation:", briefing.Recommendation)
	if briefing.ScheduleRationale != "" {
		fmt.Println("Rationale:", briefing.ScheduleRationale)
	}
	if briefing.RiskNotes != "" {
		fmt.Println("Risks:", briefing.RiskNotes)
	}
}
