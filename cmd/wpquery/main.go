package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wpquery/internal/config"
	"github.com/kailas-cloud/wpquery/internal/definition"
	logpkg "github.com/kailas-cloud/wpquery/internal/logger"
	"github.com/kailas-cloud/wpquery/internal/metrics"
	compileuc "github.com/kailas-cloud/wpquery/internal/usecase/compile"
	"github.com/kailas-cloud/wpquery/internal/version"
)

func main() {
	var (
		file        = flag.String("f", "-", "query definition file (YAML or JSON), - for stdin")
		pretty      = flag.Bool("pretty", false, "indent the JSON output")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config: "+err.Error())
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger: "+err.Error())
		os.Exit(1)
	}

	code := run(logger, cfg, *file, *pretty || cfg.Output.Pretty)
	_ = logger.Sync()
	os.Exit(code)
}

func run(logger *zap.Logger, cfg config.Config, file string, pretty bool) int {
	ctx := logpkg.ContextWithSource(context.Background(), logger, file)
	logger = logpkg.FromContext(ctx)

	// Register compile metrics explicitly (no init())
	metrics.RegisterCompileMetrics()
	defer func() {
		if cfg.Metrics.Textfile == "" {
			return
		}
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Error("Failed to write metrics textfile",
				zap.String("path", cfg.Metrics.Textfile),
				zap.Error(err),
			)
		}
	}()

	data, err := readSource(file)
	if err != nil {
		logger.Error("Failed to read definition", zap.Error(err))
		return 1
	}

	def, err := definition.Parse(data)
	if err != nil {
		logger.Error("Invalid definition", zap.Error(err))
		return 2
	}

	svc := compileuc.New(cfg.Query.DefaultLimit, cfg.Query.MaxLimit)
	params, err := svc.Compile(ctx, def)
	if err != nil {
		logger.Error("Failed to compile query", zap.Error(err))
		return 2
	}

	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(params); err != nil {
		logger.Error("Failed to write parameters", zap.Error(err))
		return 1
	}
	return 0
}

func readSource(file string) ([]byte, error) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}
