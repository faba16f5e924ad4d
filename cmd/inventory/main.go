// Command archgraph is the reference front-end that embeds the analysis
// core: it parses flags, wires the engine's collaborators together, and
// decides the process exit code. The core itself never parses flags,
// matching the teacher's cmd/crisk/main.go split between a thin
// cobra-driven main and the library packages doing the real work.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sleroy/java-architecture-analyzer/internal/collector"
	"github.com/sleroy/java-architecture-analyzer/internal/config"
	"github.com/sleroy/java-architecture-analyzer/internal/engine"
	apperrors "github.com/sleroy/java-architecture-analyzer/internal/errors"
	"github.com/sleroy/java-architecture-analyzer/internal/graphexport"
	"github.com/sleroy/java-architecture-analyzer/internal/inspector"
	"github.com/sleroy/java-architecture-analyzer/internal/inspectorreg"
	"github.com/sleroy/java-architecture-analyzer/internal/inspectors"
	"github.com/sleroy/java-architecture-analyzer/internal/javaparse"
	"github.com/sleroy/java-architecture-analyzer/internal/nodetype"
	"github.com/sleroy/java-architecture-analyzer/internal/project"
	"github.com/sleroy/java-architecture-analyzer/internal/repo"
	"github.com/sleroy/java-architecture-analyzer/internal/store"
)

var (
	cfgFile string
	logger  *logrus.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "archgraph",
	Short: "Build and persist a Java architecture graph",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./archgraph.yaml)")
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(loadCmd)
}

// exitCodeFor matches the spec's "exit 0 on success, non-zero on
// ConfigError or LoadError" instruction.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	switch apperrors.GetType(err) {
	case apperrors.ErrorTypeConfig, apperrors.ErrorTypeLoad, apperrors.ErrorTypeRegistry:
		return 1
	default:
		return 1
	}
}

var (
	flagProject     string
	flagInspectors  []string
	flagMaxPasses   int
	flagOutput      string
	flagProjectJSON string
	flagReAnalyze   []string
	flagExportNeo4j bool
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Run a fresh or incremental analysis over --project",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if flagProject != "" {
			cfg.ProjectPath = flagProject
		}
		if cfg.ProjectPath == "" {
			return apperrors.ConfigError("--project is required")
		}
		if flagMaxPasses > 0 {
			cfg.Execution.MaxPasses = flagMaxPasses
		}

		eng, s, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		if s != nil {
			defer s.Close()
		}

		result, err := eng.AnalyzeProject(context.Background(), cfg.ProjectPath, flagInspectors, cfg.Execution.MaxPasses, cfg.Execution.RequestedFilters)
		if err != nil {
			return err
		}

		if flagExportNeo4j || cfg.Neo4j.Enabled {
			if err := exportToNeo4j(context.Background(), cfg, result.Graph); err != nil {
				return err
			}
		}

		return writeOutput(result.Graph, flagOutput)
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Reload a previously saved project, optionally re-running inspectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if flagProjectJSON == "" {
			return apperrors.ConfigError("--project-json is required")
		}
		cfg.ProjectPath = flagProjectJSON

		eng, s, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		if s != nil {
			defer s.Close()
		}
		if s == nil {
			return apperrors.ConfigError("load requires a configured persistence backend")
		}
		if !project.Exists(cfg.ProjectPath) {
			return apperrors.LoadErrorf("no saved project found at %q", cfg.ProjectPath)
		}

		requested := flagReAnalyze
		result, err := eng.AnalyzeProject(context.Background(), cfg.ProjectPath, requested, cfg.Execution.MaxPasses, cfg.Execution.RequestedFilters)
		if err != nil {
			return err
		}

		return writeOutput(result.Graph, flagOutput)
	},
}

func init() {
	inventoryCmd.Flags().StringVar(&flagProject, "project", "", "project root directory")
	inventoryCmd.Flags().StringSliceVar(&flagInspectors, "inspector", nil, "restrict phases 3/4 to these inspector names (default: all registered)")
	inventoryCmd.Flags().IntVar(&flagMaxPasses, "max-passes", 0, "override the configured max-passes ceiling")
	inventoryCmd.Flags().StringVar(&flagOutput, "output", "", "write the resulting graph snapshot as JSON to this file (default: stdout)")
	inventoryCmd.Flags().BoolVar(&flagExportNeo4j, "export-neo4j", false, "push the resulting graph to the configured Neo4j backend")

	loadCmd.Flags().StringVar(&flagProjectJSON, "project-json", "", "project directory holding a prior projectAnalysis.json")
	loadCmd.Flags().StringSliceVar(&flagReAnalyze, "re-analyze", nil, "restrict phases 3/4 of the reload to these inspector names (skipped on nodes where already up to date)")
	loadCmd.Flags().StringVar(&flagOutput, "output", "", "write the resulting graph snapshot as JSON to this file (default: stdout)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		logger.WithError(err).Warn("failed to load config, using defaults")
		cfg = config.Default()
	}
	return cfg, nil
}

// buildEngine wires the persistence adapter, node-type registry, parser,
// collectors, and built-in inspectors into one AnalysisEngine. Storage is
// optional: when the storage type is "sqlite" or empty and no SQLite path
// is set, the engine runs purely in-memory and --output becomes the only
// way to see results.
func buildEngine(cfg *config.Config) (*engine.AnalysisEngine, store.Store, error) {
	var s store.Store
	var err error
	switch cfg.Storage.Type {
	case "postgres":
		s, err = store.NewPostgresStore(cfg.Storage.PostgresDSN, logger)
	case "sqlite", "":
		if cfg.Storage.SQLitePath != "" {
			s, err = store.NewSQLiteStore(cfg.Storage.SQLitePath, logger)
		}
	default:
		return nil, nil, apperrors.ConfigErrorf("unknown storage type %q", cfg.Storage.Type)
	}
	if err != nil {
		return nil, nil, apperrors.DatabaseError(err, "open persistence adapter")
	}

	registry := inspectorreg.NewRegistry()
	for _, insp := range []inspector.Inspector{
		inspectors.NewJavaSourceDetector(),
		inspectors.NewJavaBinaryDetector(),
		inspectors.NewFullyQualifiedNameInspector(),
	} {
		if err := registry.Register(insp); err != nil {
			return nil, nil, err
		}
	}

	parser := javaparse.NewTreeSitterParser()
	collectors := []collector.ClassNodeCollector{
		collector.NewJavaSourceCollector(parser),
		collector.NewJavaBinaryCollector(parser),
	}

	eng := engine.New(cfg, registry, s, nodetype.NewDefaultRegistry(), collectors)
	return eng, s, nil
}

// exportToNeo4j pushes g to the Neo4j backend configured in cfg.Neo4j,
// closing the driver once the push completes.
func exportToNeo4j(ctx context.Context, cfg *config.Config, g *repo.GraphRepository) error {
	if cfg.Neo4j.URI == "" {
		return apperrors.ConfigError("neo4j export requested but neo4j.uri is not configured")
	}
	database := cfg.Neo4j.Database
	if database == "" {
		database = "neo4j"
	}

	backend, err := graphexport.NewNeo4jBackend(ctx, cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, database)
	if err != nil {
		return apperrors.ExternalErrorf(err, "connect to neo4j")
	}
	defer backend.Close(ctx)

	return graphexport.Export(ctx, g, backend)
}

// writeOutput renders g's snapshot as JSON to path, or stdout when path
// is empty.
func writeOutput(g *repo.GraphRepository, path string) error {
	payload, err := project.GraphSnapshotJSON(g)
	if err != nil {
		return apperrors.InternalErrorf("render graph snapshot: %v", err)
	}

	if path == "" {
		_, err := os.Stdout.Write(append(payload, '\n'))
		return err
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return apperrors.FileSystemError(err, "write output file")
	}
	return nil
}
