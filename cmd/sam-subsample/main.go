// Command sam-subsample draws a fixed-size uniform random sample of
// templates from a queryname-grouped SAM text stream in a single pass.
//
// A template is the maximal run of consecutive lines sharing a QNAME, so
// read pairs and their secondary and supplementary alignments stay
// together. The reservoir holds --num templates in memory; the input is
// never rewound and may arrive on stdin.
//
// Usage:
//
//	sam-subsample -i grouped.sam -o sampled.sam -n 5000 -s 11
//	samtools view -h big.bam | sam-subsample -i - -o - -n 1000 > sampled.sam
//
// Flags:
//
//	-i, --infile        input SAM text, grouped by query name ('-' for stdin)
//	-o, --outfile       output SAM text ('-' for stdout)
//	-n, --num           number of templates to keep (default 5000)
//	-s, --seed          RNG seed; defaults to the current time in milliseconds
//	-c, --config        YAML or JSON file carrying any of the other options
//	    --level         log level: error, warn, info, debug or trace
//	    --sorted        write templates in name order instead of slot order
//	    --strict-order  fail when the input is not grouped by name
//	    --algorithm-r   use the textbook Algorithm R slot formula
//	    --progress      log progress every N templates (0 disables)
//
// Explicit flags win over the config file; the config file wins over the
// defaults. The input header must declare SO:queryname; sort by name first
// if it does not. BAM is not read directly: pipe it through samtools view
// -h.
//
// Exit codes:
//
//	0: sampling completed
//	1: runtime failure (I/O error, malformed or missing input, cancelled)
//	2: usage error (bad flag, bad config file, unsupported file type)
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	subsample "github.com/luyoutao/sam-subsample"
	"github.com/luyoutao/sam-subsample/sample"
	"github.com/luyoutao/sam-subsample/samio"
)

// version can be injected at build time:
//
//	go build -ldflags "-X main.version=1.0.0"
var version = "0.2.0"

// usageError marks argument and config problems; run maps it to exit
// code 2.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// runError marks failures of a well-formed invocation; run maps it to exit
// code 1.
type runError struct{ err error }

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args))
}

func run(ctx context.Context, args []string) int {
	if err := newCommand().Run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "sam-subsample: %v\n", err)
		var rerr *runError
		if errors.As(err, &rerr) {
			return 1
		}
		// Everything else failed before sampling began: our own
		// validation or the flag parser.
		return 2
	}
	return 0
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "sam-subsample",
		Usage:   "randomly subsample templates from a queryname-grouped SAM stream",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "infile",
				Aliases: []string{"i"},
				Usage:   "input SAM text grouped by query name ('-' for stdin)",
			},
			&cli.StringFlag{
				Name:    "outfile",
				Aliases: []string{"o"},
				Usage:   "output SAM text ('-' for stdout)",
			},
			&cli.IntFlag{
				Name:    "num",
				Aliases: []string{"n"},
				Usage:   "number of templates (read pairs) to keep",
				Value:   subsample.DefaultCapacity,
			},
			&cli.Uint64Flag{
				Name:    "seed",
				Aliases: []string{"s"},
				Usage:   "RNG seed (default: current time in milliseconds)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML or JSON config file",
			},
			&cli.StringFlag{
				Name:  "level",
				Usage: "log level: error, warn, info, debug or trace",
				Value: "info",
			},
			&cli.BoolFlag{
				Name:  "sorted",
				Usage: "write templates in name order instead of slot order",
			},
			&cli.BoolFlag{
				Name:  "strict-order",
				Usage: "fail when a template name reappears after its run ended",
			},
			&cli.BoolFlag{
				Name:  "algorithm-r",
				Usage: "use the textbook Algorithm R slot formula",
			},
			&cli.Uint64Flag{
				Name:  "progress",
				Usage: "log progress every N templates (0 disables)",
				Value: subsample.DefaultProgressEvery,
			},
		},
		// Exit codes are mapped in run; the framework must not exit on
		// its own.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Action:         action,
	}
}

func action(ctx context.Context, cmd *cli.Command) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return &usageError{err: err}
	}

	logger, err := newLogger(s.Level)
	if err != nil {
		return &usageError{err: err}
	}
	defer func() { _ = logger.Sync() }()

	if err := sampleStream(ctx, logger, s); err != nil {
		logger.Error("sampling failed", zap.Error(err))
		return &runError{err: err}
	}
	return nil
}

// sampleStream runs one sampling pass described by s.
func sampleStream(ctx context.Context, logger *zap.Logger, s settings) error {
	in, closeIn, err := openInput(s.Infile)
	if err != nil {
		return err
	}
	defer func() { _ = closeIn() }()

	r, err := samio.NewReader(in, nil)
	if err != nil {
		return err
	}
	if so := r.Header().SortOrder(); so != "queryname" {
		if so == "" {
			return errors.New("header does not declare SO:queryname: sort by name first, e.g. `samtools sort -n`")
		}
		return fmt.Errorf("input is sorted by %q, not queryname: sort by name first, e.g. `samtools sort -n`", so)
	}

	out, closeOut, err := openOutput(s.Outfile)
	if err != nil {
		return err
	}

	w, err := samio.NewWriter(out, r.Header(), nil)
	if err != nil {
		_ = closeOut()
		return err
	}

	opts := []subsample.Option{
		subsample.WithCapacity(s.Num),
		subsample.WithSeed(s.Seed),
		subsample.WithLogger(logger),
		subsample.WithProgressEvery(s.ProgressEvery),
	}
	if s.Sorted {
		opts = append(opts, subsample.WithSortedOutput())
	}
	if s.StrictOrder {
		opts = append(opts, subsample.WithOrderCheck())
	}
	if s.AlgorithmR {
		opts = append(opts, subsample.WithPolicy(sample.PolicyAlgorithmR))
	}

	logger.Info("sampling starts",
		zap.String("infile", s.Infile),
		zap.String("outfile", s.Outfile),
		zap.Int("num", s.Num),
		zap.Uint64("seed", s.Seed))
	logger.Debug("resolved settings",
		zap.String("level", s.Level),
		zap.Bool("sorted", s.Sorted),
		zap.Bool("strict_order", s.StrictOrder),
		zap.Bool("algorithm_r", s.AlgorithmR),
		zap.Uint64("progress_every", s.ProgressEvery))

	stats, err := subsample.Run(ctx, r, w, opts...)
	if err != nil {
		_ = closeOut()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}

	logger.Info("all done",
		zap.Uint64("templates_seen", stats.TemplatesSeen),
		zap.Int("templates_kept", stats.TemplatesKept),
		zap.Uint64("records_written", stats.RecordsWritten))
	return nil
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// newLogger builds a console logger on stderr, keeping the output stream
// free for sampled records.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), lvl)
	return zap.New(core), nil
}

// parseLevel maps the CLI level names onto zap levels. trace has no zap
// equivalent and logs as debug.
func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return zapcore.ErrorLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "debug", "trace":
		return zapcore.DebugLevel, nil
	default:
		return 0, fmt.Errorf("unknown log level %q: want error, warn, info, debug or trace", level)
	}
}
