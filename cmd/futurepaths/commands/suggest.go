package commands

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dreytengan/futurepaths/internal/service"
	"github.com/dreytengan/futurepaths/internal/tui"
)

func newSuggestCmd(a *app) *cobra.Command {
	var topK int
	cmd := &cobra.Command{
		Use:   "suggest <career path>",
		Short: "Print the next-role suggestions for a career path",
		Example: `  futurepaths suggest "Marketing Intern, Marketing Specialist, Digital Marketing Manager"
  futurepaths suggest --top-k 5 data analyst`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := a.open()
			if err != nil {
				return err
			}
			defer e.close()

			svc, err := e.careerService(ctx)
			if err != nil {
				return err
			}
			if topK <= 0 {
				topK = e.cfg.Serve.TopK
			}
			res, err := svc.Suggest(ctx, strings.Join(args, " "), topK)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, s := range res {
				fmt.Fprintf(out, "%d. %s (similarity %.2f)\n", i+1, s.Title, s.Confidence)
				fmt.Fprintf(out, "   %s\n", service.Snippet(s.Description, 300))
				fmt.Fprintf(out, "   %s\n", s.SearchURL)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of suggestions (default serve.top_k)")
	return cmd
}

func newTUICmd(a *app) *cobra.Command {
	var topK int
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive career pathfinder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := a.open()
			if err != nil {
				return err
			}
			defer e.close()

			svc, err := e.careerService(ctx)
			if err != nil {
				return err
			}
			if topK <= 0 {
				topK = e.cfg.Serve.TopK
			}
			m, _, _ := e.method()
			subtitle := fmt.Sprintf("%s embeddings, %s transformation. ↑/↓ to browse, Esc to quit.", e.embedder.Name(), m)
			if _, err := tea.NewProgram(tui.New(svc, topK, subtitle), tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("failed to run TUI: %w", err)
			}
			return nil
		},
	}
}
