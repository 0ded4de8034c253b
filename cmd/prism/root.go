package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/prism/internal/adapters/projection"
	"github.com/0xcro3dile/prism/internal/adapters/similarity"
	"github.com/0xcro3dile/prism/internal/adapters/splitter"
	"github.com/0xcro3dile/prism/internal/adapters/tokenizer"
	"github.com/0xcro3dile/prism/internal/config"
	"github.com/0xcro3dile/prism/internal/domain/ports"
	"github.com/0xcro3dile/prism/internal/domain/usecases"
	"github.com/0xcro3dile/prism/internal/logger"
)

// app carries the loaded configuration from the root command to subcommands.
type app struct {
	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "prism",
		Short:         "Prism - inspect document chunking for retrieval",
		Long:          "Split documents the way a retrieval pipeline would, see the overlap between chunks and how a query scores against each one.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (env PRISM_LOG_LEVEL)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON (env PRISM_LOG_JSON)")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newSplitCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	return rootCmd
}

// setup loads the environment, applies global flag overrides and
// configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-json") {
		cfg.LogJSON, _ = flags.GetBool("log-json")
	}

	logger.SetupLogger(cfg.LogLevel, cfg.LogJSON, cmd.ErrOrStderr())
	a.cfg = cfg
	a.log = logger.GetDefault()
	return nil
}

// processor wires the chunk inspection usecase from the current config.
func (a *app) processor() (*usecases.ProcessUseCase, ports.TokenCounter, error) {
	split, err := splitter.New(a.cfg.Splitter)
	if err != nil {
		return nil, nil, err
	}
	tokens := tokenizer.NewCounter(a.cfg.TokenEncoding, a.log)
	uc := usecases.NewProcessUseCase(
		split,
		tokens,
		similarity.NewTFIDF(),
		projection.NewPCA(),
		a.cfg.MatchThreshold,
	)
	return uc, tokens, nil
}

// splitFlags are shared by split and watch.
type splitFlags struct {
	size       int
	overlap    int
	query      string
	asJSON     bool
	splitter   string
	lengthUnit string
	threshold  float64
}

func (f *splitFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.size, "size", 0, "Maximum chunk length (env PRISM_CHUNK_SIZE)")
	fs.IntVar(&f.overlap, "overlap", 0, "Overlap between chunks (env PRISM_CHUNK_OVERLAP)")
	fs.StringVarP(&f.query, "query", "q", "", "Query to score chunks against")
	fs.BoolVar(&f.asJSON, "json", false, "Print the chunk list as JSON")
	fs.StringVar(&f.splitter, "splitter", "", "Splitter strategy: recursive or langchain (env PRISM_SPLITTER)")
	fs.StringVar(&f.lengthUnit, "length-unit", "", "Measure chunks in chars or tokens (env PRISM_LENGTH_UNIT)")
	fs.Float64Var(&f.threshold, "threshold", 0, "Score at which a chunk counts as a match (env PRISM_MATCH_THRESHOLD)")
}

// apply copies explicitly set flags over the loaded config.
func (f *splitFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("size") {
		cfg.ChunkSize = f.size
	}
	if fs.Changed("overlap") {
		cfg.ChunkOverlap = f.overlap
	}
	if fs.Changed("splitter") {
		cfg.Splitter = f.splitter
	}
	if fs.Changed("length-unit") {
		cfg.LengthUnit = strings.ToLower(f.lengthUnit)
	}
	if fs.Changed("threshold") {
		cfg.MatchThreshold = f.threshold
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
