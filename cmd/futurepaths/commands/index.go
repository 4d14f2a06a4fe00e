package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dreytengan/futurepaths/internal/artifact"
	"github.com/dreytengan/futurepaths/internal/dataset"
	"github.com/dreytengan/futurepaths/internal/labelspace"
)

func newBuildIndexCmd(a *app) *cobra.Command {
	var pairsPath string
	cmd := &cobra.Command{
		Use:   "build-index",
		Short: "Embed the unique next-job labels of the training pairs",
		Long: `Embed every unique target of the training pairs and store the label
space (labels and normalized vectors) at model.label_space_path.

Pairs come from --pairs, data.train_pairs, or are derived from
data.histories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := a.open()
			if err != nil {
				return err
			}
			defer e.close()

			if pairsPath == "" {
				pairsPath = e.cfg.Data.TrainPairs
			}
			pairs, err := e.pairs(pairsPath)
			if err != nil {
				return err
			}
			labels := dataset.Labels(pairs)
			e.logger.Info("building label space", "pairs", len(pairs), "labels", len(labels), "embedder", e.embedder.Name())
			if err := e.embedder.Prepare(labels); err != nil {
				return fmt.Errorf("prepare embedder: %w", err)
			}
			idx, err := e.newIndex()
			if err != nil {
				return err
			}
			space, err := labelspace.New(ctx, e.embedder, labels, labelspace.WithIndex(idx))
			if err != nil {
				return err
			}
			path := e.cfg.Model.LabelSpacePath
			if err := artifact.WriteMsgpack(ctx, e.store, path, space.Artifact()); err != nil {
				return fmt.Errorf("write label space: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "label space: %d labels, dimension %d -> %s\n", space.Len(), space.Dimension(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&pairsPath, "pairs", "", "pair file (.jsonl or .csv); defaults to data.train_pairs")
	return cmd
}
