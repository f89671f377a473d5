package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/cutlist-mcp/internal/config"
	"github.com/ironsheep/cutlist-mcp/internal/cutlist"
	"github.com/ironsheep/cutlist-mcp/internal/extract"
	"github.com/ironsheep/cutlist-mcp/internal/ocr"
	"github.com/ironsheep/cutlist-mcp/internal/preprocess"
	"github.com/ironsheep/cutlist-mcp/internal/server"
	"github.com/ironsheep/cutlist-mcp/internal/vision"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options are the parsed command line arguments.
type options struct {
	configFile string
	format     string
	positional []string
}

func parseArgs(args []string) (*options, error) {
	opts := &options{format: "json"}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")
		switch name {
		case "--config", "--format":
			if !hasValue {
				if i+1 >= len(args) {
					return nil, fmt.Errorf("%s requires a value", name)
				}
				i++
				value = args[i]
			}
			if name == "--config" {
				opts.configFile = value
			} else {
				opts.format = value
			}
		default:
			if strings.HasPrefix(arg, "--") {
				return nil, fmt.Errorf("unknown option %s", arg)
			}
			opts.positional = append(opts.positional, arg)
		}
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "cutlist-mcp %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "--help", "-h", "help":
			printHelp(stdout)
			return 0
		}
	}

	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg.Log.Level, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	pipeline := newPipeline(cfg, logger)

	if len(opts.positional) == 0 {
		logger.Info("starting cutlist MCP server",
			zap.String("version", Version),
			zap.String("build_time", BuildTime),
			zap.String("commit", GitCommit))
		srv := server.New(pipeline, Version, logger.Named("server"))
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server error", zap.Error(err))
			return 1
		}
		return 0
	}

	switch opts.positional[0] {
	case "generate":
		if len(opts.positional) != 2 {
			fmt.Fprintln(stderr, "usage: cutlist-mcp generate <file> [--format json|yaml|markdown]")
			return 2
		}
		return generate(ctx, pipeline, opts.positional[1], opts.format, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "error: unknown command %q\n", opts.positional[0])
		return 2
	}
}

// newLogger builds a production zap logger writing to w at the given level.
// stdout is reserved for the MCP protocol and command output.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

func newPipeline(cfg *config.Config, logger *zap.Logger) *cutlist.Pipeline {
	var model vision.Model = vision.Unavailable{}
	if cfg.Vision.URL != "" {
		model = vision.NewClient(vision.Config{
			BaseURL:   cfg.Vision.URL,
			Model:     cfg.Vision.Model,
			Timeout:   cfg.Vision.Timeout,
			MaxTokens: cfg.Vision.MaxTokens,
		}, logger.Named("vision"))
	}

	var recognizer extract.TextRecognizer
	if engine := ocr.NewEngine(); cfg.OCR.Enabled && engine.Enabled() {
		recognizer = engine
	} else if cfg.OCR.Enabled {
		logger.Info("OCR requested but not compiled in; rebuild on Linux with CGO_ENABLED=1")
	}

	return cutlist.New(cutlist.Config{
		Preprocess: preprocess.Config{
			MaxWidth:  cfg.Preprocess.MaxWidth,
			MaxHeight: cfg.Preprocess.MaxHeight,
		},
		Workers:     cfg.Pipeline.AnalyzeWorkers,
		OCRLanguage: cfg.OCR.Language,
	}, model, recognizer, logger)
}

func generate(ctx context.Context, p *cutlist.Pipeline, path, format string, stdout, stderr io.Writer) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	res := p.Run(ctx, data)
	if err := writeResult(stdout, res, format); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	if !res.Success {
		return 1
	}
	return 0
}

func writeResult(w io.Writer, res *cutlist.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case "markdown", "md":
		if !res.Success {
			_, err := fmt.Fprintf(w, "Error: %s\n", res.Error)
			return err
		}
		_, err := fmt.Fprintf(w, "%s\n\nCabinets: %d, components: %d, pieces: %d, area: %.3f m², confidence: %.0f%%\n",
			res.TableMarkdown,
			res.Summary.TotalCabinets,
			res.Summary.TotalComponents,
			res.Summary.TotalPieces,
			res.Summary.TotalAreaM2,
			res.Confidence*100)
		return err
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or markdown)", format)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "cutlist-mcp - cutting lists from kitchen cabinet layout drawings")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cutlist-mcp [--config file]                  Run the MCP server on stdin/stdout")
	fmt.Fprintln(w, "  cutlist-mcp generate <file> [--format f]     Print the cutting list for one drawing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --config <file>  YAML/JSON/TOML settings file")
	fmt.Fprintln(w, "  --format <f>     Output of generate: json (default), yaml or markdown")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  CUTLIST_LOG_LEVEL=info             debug, info, warn or error")
	fmt.Fprintln(w, "  CUTLIST_VISION_URL=                OpenAI compatible vision server; empty disables the model")
	fmt.Fprintln(w, "  CUTLIST_VISION_MODEL=Qwen/Qwen2-VL-2B-Instruct")
	fmt.Fprintln(w, "  CUTLIST_VISION_TIMEOUT=120s")
	fmt.Fprintln(w, "  CUTLIST_VISION_MAX_TOKENS=1000")
	fmt.Fprintln(w, "  CUTLIST_OCR_ENABLED=true           Needs a Linux binary built with cgo")
	fmt.Fprintln(w, "  CUTLIST_OCR_LANGUAGE=eng")
	fmt.Fprintln(w, "  CUTLIST_MAX_WIDTH=4000, CUTLIST_MAX_HEIGHT=4000")
	fmt.Fprintln(w, "  CUTLIST_ANALYZE_WORKERS=4")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(w, "Register it as a stdio server in your MCP client.")
}
