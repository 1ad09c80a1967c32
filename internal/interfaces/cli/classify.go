package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/google/uuid"

	"github.com/dnaenc/edesigner/internal/application/pipeline"
	"github.com/dnaenc/edesigner/internal/domain/param"
	"github.com/dnaenc/edesigner/internal/infrastructure/cheminformatics"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
)

func newClassifyCmd() *cobra.Command {
	var (
		paramsDir    string
		compounds    []string
		outDir       string
		chemToolPath string
		maxAtoms     int
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "classify building blocks into the BBT catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			logger := cliCtx.Logger

			infra, err := initInfrastructure(cliCtx.Config, logger)
			if err != nil {
				return fmt.Errorf("connecting infrastructure: %w", err)
			}
			defer infra.Close()

			p, err := param.Load(paramsDir)
			if err != nil {
				return fmt.Errorf("loading parameters: %w", err)
			}

			sources := make([]pipeline.SourceFile, 0, len(compounds))
			for _, spec := range compounds {
				source, path, external := parseCompoundSpec(spec)
				sources = append(sources, pipeline.SourceFile{Path: path, Source: source, External: external})
			}

			chem := cheminformatics.NewSubprocessTool(chemToolPath)
			workers := cliCtx.Config.Engine.Workers
			if workers < 1 {
				workers = 1
			}

			dedup := pipeline.NewRedisDedup(infra.cache, dedupTTL, logger)

			result, err := pipeline.RunClassify(cmd.Context(), p, maxAtoms, sources, chem, dedup, workers, logger, cliCtx.Metrics)
			if err != nil {
				return fmt.Errorf("classify: %w", err)
			}

			runID := uuid.NewString()
			store := pipeline.NewPostgresStore(infra.repo)
			if err := store.SaveCatalogueDescriptor(cmd.Context(), runID, result.Descriptor); err != nil {
				return fmt.Errorf("persisting catalogue descriptor: %w", err)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			if err := pipeline.WriteCompoundListings(filepath.Join(outDir, "compounds"), result.Compounds); err != nil {
				return fmt.Errorf("writing compound listings: %w", err)
			}

			descriptorPath := filepath.Join(outDir, "catalogue.tsv")
			if err := os.WriteFile(descriptorPath, []byte(pipeline.FormatCatalogueDescriptor(result.Descriptor)), 0o644); err != nil {
				return fmt.Errorf("writing catalogue descriptor: %w", err)
			}

			cataloguePath := filepath.Join(outDir, "catalogue.json")
			catalogueFile, err := os.Create(cataloguePath)
			if err != nil {
				return fmt.Errorf("creating catalogue file: %w", err)
			}
			saveErr := pipeline.SaveCatalogue(catalogueFile, result.Catalogue)
			if closeErr := catalogueFile.Close(); saveErr == nil {
				saveErr = closeErr
			}
			if saveErr != nil {
				return fmt.Errorf("writing catalogue: %w", saveErr)
			}

			logger.Info("classify complete",
				logging.String("run_id", runID),
				logging.Int("classified", result.ClassifiedN),
				logging.Int("dropped", result.DroppedN),
				logging.String("out", outDir))
			return nil
		},
	}

	cmd.Flags().StringVar(&paramsDir, "params", "", "directory containing the parameter tables")
	cmd.Flags().StringArrayVar(&compounds, "compounds", nil, "source compound file spec SOURCE:PATH or SOURCE:PATH:external, repeatable")
	cmd.Flags().StringVar(&outDir, "out", "./classify-out", "output directory for compound listings and the catalogue descriptor")
	cmd.Flags().StringVar(&chemToolPath, "chemtool-path", "chemtool", "path to the external cheminformatics tool binary")
	cmd.Flags().IntVar(&maxAtoms, "max-atoms", 200, "maximum effective atom count a BBT histogram tracks")
	cmd.MarkFlagRequired("params")
	cmd.MarkFlagRequired("compounds")

	return cmd
}

// parseCompoundSpec splits a "SOURCE:PATH" or "SOURCE:PATH:external" flag
// value into its source tag, file path, and external flag.
func parseCompoundSpec(spec string) (source, path string, external bool) {
	parts := strings.SplitN(spec, ":", 3)
	source = parts[0]
	if len(parts) > 1 {
		path = parts[1]
	}
	if len(parts) > 2 && parts[2] == "external" {
		external = true
	}
	return source, path, external
}
