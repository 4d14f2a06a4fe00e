package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dreytengan/futurepaths/internal/service"
)

func newParseResumeCmd(a *app) *cobra.Command {
	var (
		mode        string
		aspirations string
		topK        int
	)
	cmd := &cobra.Command{
		Use:   "parse-resume <resume.pdf>",
		Short: "Extract the career profile from a PDF résumé",
		Long: `Print the extracted profile (most recent job, jobs, skills, summary) as
JSON. With --mode the profile is also turned into a query and the
matching suggestions are printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := a.open()
			if err != nil {
				return err
			}
			defer e.close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			profile, err := e.resumeParser().ParsePDF(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if mode == "" {
				return enc.Encode(profile)
			}

			var query string
			switch mode {
			case "conventional":
				query, err = service.ConventionalQuery(profile)
			case "pivot":
				query, err = service.PivotQuery(profile, aspirations)
			default:
				return fmt.Errorf("unknown mode %q (conventional or pivot)", mode)
			}
			if err != nil {
				return err
			}
			svc, err := e.careerService(ctx)
			if err != nil {
				return err
			}
			if topK <= 0 {
				topK = e.cfg.Serve.TopK
			}
			res, err := svc.Suggest(ctx, query, topK)
			if err != nil {
				return err
			}
			return enc.Encode(map[string]any{"profile": profile, "query": query, "suggestions": res})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "also suggest roles: conventional or pivot")
	cmd.Flags().StringVar(&aspirations, "aspirations", "", "interests to steer pivot suggestions")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of suggestions (default serve.top_k)")
	return cmd
}
