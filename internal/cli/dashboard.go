package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/efficia/internal/tui"
	"github.com/spf13/cobra"
)

func newDashboardCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the terminal dashboard (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, e)
		},
	}
}

func runDashboard(cmd *cobra.Command, e *env) error {
	s, err := e.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	p := tea.NewProgram(tui.NewApp(s), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}
