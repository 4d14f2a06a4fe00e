package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dreytengan/futurepaths/internal/config"
	"github.com/dreytengan/futurepaths/internal/dataset"
	"github.com/dreytengan/futurepaths/internal/evaluation"
)

func newEvaluateCmd(a *app) *cobra.Command {
	var pairsPath string
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score the configured predictor on held-out pairs (MRR, R@5, R@10)",
		Long: `Predict the top 10 labels for every test history and report MRR, R@5
and R@10. Scores go to <output.scores_path>_<method>.json and the ranked
predictions to <output.predictions_path>_<method>.msgpack.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if pairsPath == "" {
				pairsPath = a.cfg.Data.TestPairs
			}
			if err := config.Require("data.test_pairs", pairsPath); err != nil {
				return err
			}
			e, err := a.open()
			if err != nil {
				return err
			}
			defer e.close()

			pairs, err := dataset.LoadPairs(pairsPath)
			if err != nil {
				return err
			}
			p, err := e.loadPredictor(ctx)
			if err != nil {
				return err
			}
			scores, ranked, err := evaluation.Run(ctx, p, pairs, e.logger)
			if err != nil {
				return err
			}
			m, _, err := e.method()
			if err != nil {
				return err
			}
			scoresPath := evaluation.ScoresPath(e.cfg.Output.ScoresPath, string(m))
			if err := evaluation.WriteScores(ctx, e.store, scoresPath, scores); err != nil {
				return fmt.Errorf("write scores: %w", err)
			}
			predPath := evaluation.PredictionsPath(e.cfg.Output.PredictionsPath, string(m))
			if err := evaluation.WritePredictions(ctx, e.store, predPath, ranked); err != nil {
				return fmt.Errorf("write predictions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "MRR: %.4f\nR@5: %.4f\nR@10: %.4f\n", scores.MRR, scores.RecallAt5, scores.RecallAt10)
			return nil
		},
	}
	cmd.Flags().StringVar(&pairsPath, "pairs", "", "test pair file (.jsonl or .csv); defaults to data.test_pairs")
	return cmd
}
