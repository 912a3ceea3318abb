// Command lambdupdate runs the function update pipeline locally for one archive.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lambdupdate/lambdupdate/internal/app"
	"github.com/lambdupdate/lambdupdate/internal/config"
	"github.com/lambdupdate/lambdupdate/internal/events"
	"github.com/lambdupdate/lambdupdate/internal/logging"
	"github.com/lambdupdate/lambdupdate/internal/observability"
	"go.uber.org/zap"
)

type Args struct {
	Verbosity     int
	Region        string
	Bucket        string
	Key           string
	FunctionNames string
	RoleARN       string
	EnvFile       string
	Trace         bool
	OTLPEndpoint  string
}

// verbosity adds step to level each time its flag appears, so -v -v and -vv agree.
type verbosity struct {
	level *int
	step  int
}

func (v verbosity) String() string {
	if v.level == nil {
		return "0"
	}
	return fmt.Sprint(*v.level)
}
func (v verbosity) IsBoolFlag() bool { return true }
func (v verbosity) Set(string) error {
	*v.level += v.step
	return nil
}

func parseArgs(fs *flag.FlagSet, argv []string) (*Args, error) {
	var args Args

	fs.Var(verbosity{level: &args.Verbosity, step: 1}, "v", "Verbose mode (-v for debug, -vv for development logging).")
	fs.Var(verbosity{level: &args.Verbosity, step: 2}, "vv", "Development logging, same as -v -v.")
	fs.StringVar(&args.Region, "region", "", "AWS region.")
	fs.StringVar(&args.Bucket, "bucket", "", "S3 bucket name.")
	fs.StringVar(&args.Key, "key", "", "S3 key name.")
	fs.StringVar(&args.FunctionNames, "function-names", "", "Comma separated function names, overrides the object metadata.")
	fs.StringVar(&args.RoleARN, "role-arn", "", "Role to assume before updating.")
	fs.StringVar(&args.EnvFile, "env-file", ".env", "Environment file to load.")
	fs.BoolVar(&args.Trace, "trace", false, "Export OpenTelemetry traces.")
	fs.StringVar(&args.OTLPEndpoint, "otlp-endpoint", observability.DefaultCollectorEndpoint, "OTLP gRPC collector endpoint.")

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}

	if args.Region == "" {
		return nil, fmt.Errorf("-region is required")
	}
	if args.Bucket == "" {
		return nil, fmt.Errorf("-bucket is required")
	}
	if args.Key == "" {
		return nil, fmt.Errorf("-key is required")
	}

	return &args, nil
}

func main() {
	fs := flag.NewFlagSet("lambdupdate", flag.ExitOnError)
	args, err := parseArgs(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		os.Exit(2)
	}

	if err := config.LoadEnv(args.EnvFile); err != nil {
		log.Printf("Warning: %s", err)
	}

	cfg := config.NewConfig()
	cfg.Region = args.Region
	if args.RoleARN != "" {
		cfg.AssumeRoleARN = args.RoleARN
	}
	if args.Verbosity > cfg.LogVerbosity {
		cfg.LogVerbosity = args.Verbosity
	}

	logger, err := logging.NewLogger(cfg.LogVerbosity)
	if err != nil {
		log.Fatalf("Failed to build logger: %s\n", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(context.Background(), args, cfg, logger); err != nil {
		logger.Error("Update failed", zap.Error(err))
		logger.Sync() //nolint:errcheck
		os.Exit(1)
	}
}

func run(ctx context.Context, args *Args, cfg *config.Config, logger *zap.Logger) error {
	logger.Debug("Args",
		zap.String("region", args.Region),
		zap.String("bucket", args.Bucket),
		zap.String("key", args.Key),
		zap.String("function_names", args.FunctionNames),
	)

	if args.Trace {
		shutdown, err := observability.InitTracer(ctx, cfg.ServiceName, cfg.ServiceVersion, args.OTLPEndpoint, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Warn("Failed to flush traces", zap.Error(err))
			}
		}()
	}

	updateHandler, err := app.NewUpdateHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}

	event := events.NewLocalEvent(args.Region, args.Bucket, args.Key, args.FunctionNames)
	return updateHandler.HandleEvent(ctx, event)
}
