// Command msgcompare compares two candidate responses to an input message
// using the Perplexity API and prints the verdict.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	comparator "github.com/subrat-kp/response-comparator"
	"github.com/subrat-kp/response-comparator/fs"
	"github.com/subrat-kp/response-comparator/lipgloss"
	"github.com/subrat-kp/response-comparator/perplexity"
)

// ErrMissingAPIKey is returned when no credential is available.
var ErrMissingAPIKey = errors.New("PERPLEXITY_API_KEY environment variable is required.\nPlease set it with: export PERPLEXITY_API_KEY='your-api-key-here'")

// App encapsulates the application logic for testing.
type App struct {
	Stdout     io.Writer
	Loader     comparator.ContentLoader
	Comparator comparator.Comparator
	Renderer   comparator.ResultRenderer

	InputFile   string
	OutputAFile string
	OutputBFile string
	JSON        bool
	Verbose     bool
}

// Run loads the three files, performs the comparison and prints the result.
func (a *App) Run(ctx context.Context) error {
	a.verbosef("Reading input from: %s\n", a.InputFile)
	a.verbosef("Reading output A from: %s\n", a.OutputAFile)
	a.verbosef("Reading output B from: %s\n", a.OutputBFile)

	inputMessage, err := a.Loader.Load(a.InputFile)
	if err != nil {
		return err
	}
	outputA, err := a.Loader.Load(a.OutputAFile)
	if err != nil {
		return err
	}
	outputB, err := a.Loader.Load(a.OutputBFile)
	if err != nil {
		return err
	}

	a.verbosef("Input message: %s\n", inputMessage)
	a.verbosef("Output A: %s\n", outputA)
	a.verbosef("Output B: %s\n", outputB)
	a.verbosef("Comparing messages using Perplexity API...\n")

	verdict, err := a.Comparator.Compare(ctx, comparator.ComparisonInput{
		InputMessage: inputMessage,
		OutputA:      outputA,
		OutputB:      outputB,
	})
	if err != nil {
		return err
	}

	result := comparator.Result{
		InputFile:        a.InputFile,
		OutputAFile:      a.OutputAFile,
		OutputBFile:      a.OutputBFile,
		InputMessage:     inputMessage,
		OutputA:          outputA,
		OutputB:          outputB,
		ComparisonResult: verdict,
	}

	if a.JSON {
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.Stdout, string(encoded))
		return nil
	}

	fmt.Fprintln(a.Stdout, a.Renderer.Render(result))
	return nil
}

// verbosef writes a progress line when verbose mode is on.
func (a *App) verbosef(format string, args ...any) {
	if a.Verbose {
		fmt.Fprintf(a.Stdout, format, args...)
	}
}

func main() {
	// A local .env file may supply the credential; a missing file is fine.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := Run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, ErrorMessage(err))
		os.Exit(1)
	}
}

// ErrorMessage converts a failure from Run into the single line printed to
// the error stream. Cancellation gets its own message instead of the Error:
// prefix.
func ErrorMessage(err error) string {
	if errors.Is(err, context.Canceled) {
		return "\nOperation cancelled by user."
	}
	return fmt.Sprintf("Error: %v", err)
}

// Run parses args, resolves the credential through getenv and performs the
// comparison. The credential is checked before any file is opened.
func Run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	var (
		inputFile     string
		outputAFile   string
		outputBFile   string
		jsonOutput    bool
		verbose       bool
		insecureRetry bool
	)

	flags := flag.NewFlagSet("msgcompare", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&inputFile, "i", "", "Path to the text file containing the input message")
	flags.StringVar(&inputFile, "input-file", "", "Path to the text file containing the input message")
	flags.StringVar(&outputAFile, "a", "", "Path to the text file containing the first output message to compare")
	flags.StringVar(&outputAFile, "output-a-file", "", "Path to the text file containing the first output message to compare")
	flags.StringVar(&outputBFile, "b", "", "Path to the text file containing the second output message to compare")
	flags.StringVar(&outputBFile, "output-b-file", "", "Path to the text file containing the second output message to compare")
	flags.BoolVar(&jsonOutput, "json", false, "Output result in JSON format")
	flags.BoolVar(&verbose, "verbose", false, "Enable verbose output")
	flags.BoolVar(&insecureRetry, "insecure-tls-retry", false, "Retry once with certificate verification disabled if verification fails (insecure)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if inputFile == "" || outputAFile == "" || outputBFile == "" {
		flags.Usage()
		return errors.New("flags --input-file, --output-a-file and --output-b-file are required")
	}

	apiKey := getenv("PERPLEXITY_API_KEY")
	if apiKey == "" {
		return ErrMissingAPIKey
	}

	var clientOpts []perplexity.Option
	if insecureRetry {
		clientOpts = append(clientOpts, perplexity.WithInsecureRetry())
	}
	client := perplexity.NewClient(apiKey, clientOpts...)

	app := &App{
		Stdout:      stdout,
		Loader:      fs.NewLoader(),
		Comparator:  perplexity.NewComparator(client),
		Renderer:    lipgloss.NewRenderer(),
		InputFile:   inputFile,
		OutputAFile: outputAFile,
		OutputBFile: outputBFile,
		JSON:        jsonOutput,
		Verbose:     verbose,
	}

	return app.Run(ctx)
}
