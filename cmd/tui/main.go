package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"fxcycle-go/internal/config"
)

func main() {
	reader := bufio.NewReader(os.Stdin)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	for {
		fmt.Println("\n=== FX Cycle Control ===")
		fmt.Println("1) Show configuration summary")
		fmt.Println("2) Edit feed (pair, dates, provider)")
		fmt.Println("3) Edit band-pass and classifier knobs")
		fmt.Println("4) Save config")
		fmt.Println("5) Run cycler")
		fmt.Println("6) Reload config from disk")
		fmt.Println("0) Exit")
		fmt.Print("Select option: ")

		input, _ := reader.ReadString('\n')
		choice := strings.TrimSpace(input)

		switch choice {
		case "1":
			printSummary(cfg)
		case "2":
			editFeed(reader, cfg)
		case "3":
			editPipeline(reader, cfg)
		case "4":
			if err := saveConfig(cfg); err != nil {
				fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			} else {
				fmt.Println("config saved")
			}
		case "5":
			launchCycler()
		case "6":
			reloaded, err := loadConfig()
			if err != nil {
				fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
			} else {
				cfg = reloaded
				fmt.Println("config reloaded")
			}
		case "0":
			return
		default:
			fmt.Println("unknown option")
		}
	}
}

func printSummary(cfg *config.Config) {
	p := cfg.Pipeline
	fmt.Println("\n--- Configuration Summary ---")
	fmt.Printf("Feed: %s %s/%s from %q to %q\n", cfg.Feed.Provider, cfg.Feed.Base, cfg.Feed.Quote, cfg.Feed.Start, cfg.Feed.End)
	fmt.Printf("Cycle source: %s (fixed period %.1f)\n", cfg.Cycle.Mode, cfg.Cycle.FixedPeriod)
	fmt.Printf("Window length: %d | EMA span: %d | gap policy: %s\n", p.WindowLength, p.EMASpan, p.GapPolicy)
	fmt.Printf("Detuning: %.3f | sample rate: %.2f\n", p.Detuning, p.SampleRate)
	fmt.Printf("Signal threshold: %.3f | amplitude threshold: %.4f (%.0f pips)\n", p.SignalThresh, p.AmpThresh, p.AmpThresh*1e4)
	fmt.Printf("Outputs: %s, %s\n", cfg.Output.SamplesPath, cfg.Output.PlotsPath)
}

func editFeed(reader *bufio.Reader, cfg *config.Config) {
	fmt.Println("\n--- Edit Feed ---")
	cfg.Feed.Provider = promptString(reader, "Provider (csv|frankfurter|synthetic)", cfg.Feed.Provider)
	cfg.Feed.Base = strings.ToUpper(promptString(reader, "Base currency", cfg.Feed.Base))
	cfg.Feed.Quote = strings.ToUpper(promptString(reader, "Quote currency", cfg.Feed.Quote))
	cfg.Feed.Start = promptString(reader, "Start date (YYYY-MM-DD)", cfg.Feed.Start)
	cfg.Feed.End = promptString(reader, "End date (YYYY-MM-DD, blank for open)", cfg.Feed.End)
	if _, _, err := cfg.Feed.Range(); err != nil {
		fmt.Printf("warning: %v\n", err)
	}
	cfg.Cycle.Mode = promptString(reader, "Cycle source (hilbert|fixed)", cfg.Cycle.Mode)
}

func editPipeline(reader *bufio.Reader, cfg *config.Config) {
	fmt.Println("\n--- Edit Pipeline ---")
	p := &cfg.Pipeline
	p.WindowLength = int(promptFloat(reader, "Window length", float64(p.WindowLength)))
	p.Detuning = promptFloat(reader, "Detuning (0-1)", p.Detuning)
	p.SampleRate = promptFloat(reader, "Sample rate", p.SampleRate)
	p.SignalThresh = promptFloat(reader, "Signal threshold", p.SignalThresh)
	p.AmpThresh = promptPips(reader, "Amplitude threshold (pips)", p.AmpThresh)
	p.EMASpan = int(promptFloat(reader, "EMA span", float64(p.EMASpan)))
	p.GapPolicy = promptString(reader, "Gap policy (reset|bridge)", p.GapPolicy)
}

func launchCycler() {
	fmt.Println("Running cycler...")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := exec.CommandContext(ctx, "go", "run", "./cmd/cycler")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "FXCYCLE_CONFIG="+locateConfig())

	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "cycler failed: %v\n", err)
	}
}

func promptString(reader *bufio.Reader, label, current string) string {
	fmt.Printf("%s [%s]: ", label, current)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	return line
}

func promptFloat(reader *bufio.Reader, label string, current float64) float64 {
	fmt.Printf("%s [%.4f]: ", label, current)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	val, err := strconv.ParseFloat(line, 64)
	if err != nil {
		fmt.Printf("invalid number, keeping %.4f\n", current)
		return current
	}
	return val
}

func promptPips(reader *bufio.Reader, label string, current float64) float64 {
	pips := promptFloat(reader, label, current*1e4)
	return pips / 1e4
}

func loadConfig() (*config.Config, error) {
	return config.Load(locateConfig())
}

func saveConfig(cfg *config.Config) error {
	return config.Save(locateConfig(), cfg)
}

func locateConfig() string {
	path := config.Path()
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
