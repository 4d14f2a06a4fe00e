package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dreytengan/futurepaths/internal/dataset"
)

func newPairsCmd(a *app) *cobra.Command {
	var (
		historiesPath string
		outPath       string
		opts          dataset.Options
	)
	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "Turn career histories into (history, next job) pairs",
		Long: `Read career histories (JSONL, one {"id", "roles": [...]} per line) and
write one {"history", "target"} JSON object per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if historiesPath == "" {
				historiesPath = a.cfg.Data.Histories
			}
			if historiesPath == "" {
				return fmt.Errorf("--histories or data.histories is required")
			}
			if !cmd.Flags().Changed("minus-last") {
				opts.MinusLast = a.cfg.Data.MinusLast
			}
			if !cmd.Flags().Changed("all-subspans") {
				opts.AllSubspans = a.cfg.Data.AllSubspans
			}
			hs, err := dataset.LoadHistories(historiesPath)
			if err != nil {
				return err
			}
			pairs := dataset.Pairs(hs, opts)

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			bw := bufio.NewWriter(w)
			if err := dataset.WritePairs(bw, pairs); err != nil {
				return err
			}
			if err := bw.Flush(); err != nil {
				return err
			}
			a.logger.Info("pairs written", "histories", len(hs), "pairs", len(pairs), "labels", len(dataset.Labels(pairs)))
			return nil
		},
	}
	cmd.Flags().StringVar(&historiesPath, "histories", "", "career history JSONL (default data.histories)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output JSONL, - for stdout")
	cmd.Flags().BoolVar(&opts.MinusLast, "minus-last", false, "leave the target role out of the history text")
	cmd.Flags().BoolVar(&opts.AllSubspans, "all-subspans", false, "one pair per contiguous run of at least two roles")
	cmd.Flags().IntVar(&opts.MaxSpans, "max-spans", 0, "keep only the last N subspans per history (0 keeps all)")
	cmd.Flags().BoolVar(&opts.NormalizeTitles, "normalize-titles", false, "lowercase taxonomy titles and merge renamed ones")
	return cmd
}
