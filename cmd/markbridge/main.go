package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/gerunddev/markbridge/internal/config"
	"github.com/gerunddev/markbridge/internal/diagram"
	"github.com/gerunddev/markbridge/internal/diff"
	"github.com/gerunddev/markbridge/internal/logger"
	"github.com/gerunddev/markbridge/internal/pipeline"
	"github.com/gerunddev/markbridge/internal/styles"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "normalize", "fmt":
		handleNormalize(os.Args[2:])
	case "check":
		handleCheck(os.Args[2:])
	case "encode":
		handleEncode(os.Args[2:])
	case "preview":
		handlePreview(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("markbridge v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := `markbridge - Markdown <-> rich document conversion pipeline

Usage:
  markbridge <command> [options]

Commands:
  normalize, fmt    Run a markdown file once through the pipeline
                    (-w writes the result back in place)
  check             Verify the file is round-trip stable
  encode            Encode a diagram source file into a render URL
  preview           Render a markdown file in the terminal
  version           Show version information
  help              Show this help message

Examples:
  markbridge normalize notes/file.md
  markbridge normalize -w notes/file.md
  markbridge check notes/file.md
  markbridge encode diagrams/flow.puml
`
	fmt.Print(usage)
}

func newLogger() *logger.Logger {
	cfg, err := config.Load()
	if err != nil || cfg.LogFile == "" {
		return logger.Discard()
	}
	l, _, err := logger.NewFileLogger(cfg.LogFile)
	if err != nil {
		return logger.Discard()
	}
	return l
}

func readInput(args []string) (string, string) {
	file := ""
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			file = a
			break
		}
	}
	if file == "" {
		fmt.Fprintln(os.Stderr, "Error: No input file specified")
		os.Exit(1)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return file, string(data)
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func handleNormalize(args []string) {
	log := newLogger()
	file, text := readInput(args)

	start := time.Now()
	doc := pipeline.Parse(text, "")
	log.DocumentParsed(file, len(doc.Content), time.Since(start))

	start = time.Now()
	out := pipeline.Serialize(doc, "")
	log.DocumentSerialized(file, len(out), time.Since(start))

	if out != text {
		log.Normalized(file)
	}

	if hasFlag(args, "-w") {
		if err := os.WriteFile(file, []byte(out), 0644); err != nil {
			log.FileError(file, err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(styles.SuccessStyle.Render("normalized " + file))
		return
	}
	fmt.Print(out)
}

func handleCheck(args []string) {
	log := newLogger()
	file, text := readInput(args)

	start := time.Now()
	doc := pipeline.Parse(text, "")
	log.DocumentParsed(file, len(doc.Content), time.Since(start))

	start = time.Now()
	first := pipeline.Serialize(doc, "")
	log.DocumentSerialized(file, len(first), time.Since(start))

	second := pipeline.Normalize(first, "")

	if first != second {
		log.RoundTripMismatch(file)
		fmt.Println(styles.ErrorStyle.Render("UNSTABLE: " + file))
		fmt.Print(diff.Render(diff.Unified(file, first, second)))
		os.Exit(1)
	}

	if first != text {
		fmt.Println(styles.WarningStyle.Render("stable after normalization: " + file))
		fmt.Print(diff.Render(diff.Unified(file, text, first)))
		return
	}
	fmt.Println(styles.SuccessStyle.Render("stable: " + file))
}

func handleEncode(args []string) {
	log := newLogger()
	file, text := readInput(args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	url, err := diagram.RenderURL(cfg.DiagramServer, text)
	if err != nil {
		log.DiagramEncodeFailed(file, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(url)
}

func handlePreview(args []string) {
	_, text := readInput(args)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Print(text)
		return
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		fmt.Print(text)
		return
	}
	fmt.Print(rendered)
}
