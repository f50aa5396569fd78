package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime/pprof"
	"time"

	"github.com/lestrrat-go/xenon"
)

const usage = `xenon-flame - Profile the write/scan cycle and view flamegraphs

Usage:
  xenon-flame [options] <xml-file>

Options:
  -iterations int    Number of reformat iterations (default: 2000)
  -port int         HTTP server port (default: 8080)
  -profile string   Profile type: cpu, mem (default: cpu)
  -help             Show this help message

This command will:
1. Generate a profile by reformatting the document over and over
2. Automatically open your browser on the pprof web interface
3. Keep the server running until you press Ctrl+C

Examples:
  xenon-flame sample.xml                    # CPU flamegraph on port 8080
  xenon-flame -profile mem sample.xml      # Memory flamegraph
  xenon-flame -port 9090 sample.xml        # Use different port
`

func main() {
	var (
		iterations = flag.Int("iterations", 2000, "Number of reformat iterations")
		port       = flag.Int("port", 8080, "HTTP server port")
		profile    = flag.String("profile", "cpu", "Profile type: cpu, mem")
		help       = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *help {
		fmt.Print(usage)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: XML file argument required\n\n")
		fmt.Print(usage)
		os.Exit(1)
	}

	xmlFile := flag.Arg(0)

	if _, err := os.Stat(xmlFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: XML file does not exist: %s\n", xmlFile)
		os.Exit(1)
	}

	if *profile != "cpu" && *profile != "mem" {
		fmt.Fprintf(os.Stderr, "Error: profile must be 'cpu' or 'mem'\n")
		os.Exit(1)
	}

	if err := generateAndViewProfile(xmlFile, *iterations, *port, *profile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func generateAndViewProfile(xmlFile string, iterations, port int, profileType string) error {
	fmt.Printf("🔥 Xenon Flamegraph Generator\n")
	fmt.Printf("XML file: %s\n", xmlFile)
	fmt.Printf("Profile type: %s\n", profileType)
	fmt.Printf("Iterations: %d\n", iterations)
	fmt.Printf("Server port: %d\n\n", port)

	xmlData, err := os.ReadFile(xmlFile)
	if err != nil {
		return fmt.Errorf("failed to read XML file: %w", err)
	}

	profileFile := fmt.Sprintf("xenon_%s.prof", profileType)

	fmt.Printf("📊 Generating %s profile...\n", profileType)
	if err := generateProfile(xmlData, iterations, profileType, profileFile); err != nil {
		return fmt.Errorf("failed to generate profile: %w", err)
	}

	fmt.Printf("✅ Profile generated: %s\n\n", profileFile)

	return startPprofServer(profileFile, port)
}

func generateProfile(xmlData []byte, iterations int, profileType, profileFile string) error {
	ctx := context.Background()

	switch profileType {
	case "cpu":
		return generateCPUProfile(ctx, xmlData, iterations, profileFile)
	case "mem":
		return generateMemProfile(ctx, xmlData, iterations, profileFile)
	default:
		return fmt.Errorf("unsupported profile type: %s", profileType)
	}
}

func generateCPUProfile(ctx context.Context, xmlData []byte, iterations int, profileFile string) error {
	f, err := os.Create(profileFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := pprof.StartCPUProfile(f); err != nil {
		return err
	}
	defer pprof.StopCPUProfile()

	// Run workload
	for i := range iterations {
		if err := xenon.Reformat(ctx, io.Discard, xmlData); err != nil {
			return fmt.Errorf("reformat failed at iteration %d: %w", i, err)
		}
	}

	return nil
}

func generateMemProfile(ctx context.Context, xmlData []byte, iterations int, profileFile string) error {
	// Keep every output alive to trigger allocations
	var outputs []*bytes.Buffer
	for range iterations {
		var buf bytes.Buffer
		if err := xenon.Reformat(ctx, &buf, xmlData); err != nil {
			return fmt.Errorf("reformat failed: %w", err)
		}
		outputs = append(outputs, &buf)
	}

	f, err := os.Create(profileFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return err
	}

	// Prevent optimization of the outputs slice
	_ = len(outputs)
	return nil
}

func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch {
	case commandExists("xdg-open"): // Linux
		cmd = exec.Command("xdg-open", url)
	case commandExists("open"): // macOS
		cmd = exec.Command("open", url)
	case commandExists("cmd"): // Windows
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("no suitable browser opener found")
	}

	return cmd.Start()
}

func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

func startPprofServer(profileFile string, port int) error {
	fmt.Printf("🌐 Starting pprof server on port %d...\n", port)
	fmt.Printf("🚀 Opening browser automatically...\n\n")

	url := fmt.Sprintf("http://localhost:%d/ui/", port)

	// Start pprof server in background
	cmd := exec.Command("go", "tool", "pprof", "-http", fmt.Sprintf(":%d", port), profileFile)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start pprof server: %w", err)
	}

	// Wait a moment for server to start
	time.Sleep(2 * time.Second)

	// Open browser
	if err := openBrowser(url); err != nil {
		fmt.Printf("⚠️  Could not open browser automatically. Please open: %s\n", url)
	} else {
		fmt.Printf("✨ Browser opened! The interface should appear shortly.\n")
	}

	fmt.Printf("\n📋 Instructions:\n")
	fmt.Printf("   • The pprof web interface is now loading in your browser\n")
	fmt.Printf("   • If it doesn't open, manually visit: %s\n", url)
	fmt.Printf("   • Press Ctrl+C to stop the server when done\n\n")

	// Wait for the server process
	return cmd.Wait()
}
