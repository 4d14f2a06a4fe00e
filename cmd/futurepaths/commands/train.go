package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dreytengan/futurepaths/internal/artifact"
	"github.com/dreytengan/futurepaths/internal/transform"
)

func newTrainLinearCmd(a *app) *cobra.Command {
	var onlyDifferent bool
	cmd := &cobra.Command{
		Use:   "train-linear",
		Short: "Learn the linear map from history embeddings to job embeddings",
		Long: `Solve target ≈ history·T by least squares over the training pairs and
store T at model.transformation_path. The fit errors (MSE, RMSE) are
written to output.errors_path.

Requires a label space (build-index) so the embedder is prepared over the
same labels prediction uses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := a.open()
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.prepareFromLabelSpace(ctx); err != nil {
				return err
			}
			pairs, err := e.pairs(e.cfg.Data.TrainPairs)
			if err != nil {
				return err
			}
			opts := transform.TrainOptions{
				OnlyDifferent: onlyDifferent || e.cfg.Data.OnlyDifferent,
				Logger:        e.logger,
			}
			lin, report, err := transform.TrainLinear(ctx, e.embedder, pairs, opts)
			if err != nil {
				return err
			}
			if err := artifact.WriteMsgpack(ctx, e.store, e.cfg.Model.TransformationPath, lin.Matrix()); err != nil {
				return fmt.Errorf("write transformation: %w", err)
			}
			if err := artifact.WriteJSON(ctx, e.store, e.cfg.Output.ErrorsPath, report.Errors()); err != nil {
				return fmt.Errorf("write errors: %w", err)
			}
			errs := report.Errors()
			fmt.Fprintf(cmd.OutOrStdout(), "trained on %d pairs: MSE=%.3f RMSE=%.3f normalized ‖T−I‖=%.4f\n",
				report.Pairs, errs.MSE, errs.RMSE, report.NormalizedFrobenius)
			return nil
		},
	}
	cmd.Flags().BoolVar(&onlyDifferent, "only-different", false, "drop pairs whose history equals the target")
	return cmd
}
