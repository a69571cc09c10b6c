package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/rawline/internal/history"
)

var (
	historyLimit   int
	historySession string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or clear the saved line history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved lines, most recent first",
	Long: `List lines saved by previous sessions, most recent first.

Examples:
  rawline history list
  rawline history list --limit 20
  rawline history list --session 3f0c...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listHistory(cmd.OutOrStdout(), cfg.History.Path, historySession, historyLimit)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved line",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return clearHistory(cmd.OutOrStdout(), cfg.History.Path)
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "maximum number of lines (0 for all)")
	historyListCmd.Flags().StringVar(&historySession, "session", "", "only lines from this session id")

	historyCmd.AddCommand(historyListCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func listHistory(w io.Writer, path, session string, limit int) error {
	store, err := openHistory(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var entries []history.Entry
	if session != "" {
		entries, err = store.BySession(session, limit)
	} else {
		entries, err = store.Recent(limit)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No history")
		return err
	}

	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%5d  %s  %s\n", e.ID, e.CreatedAt.Format("2006-01-02 15:04:05"), e.Line)
	}
	_, err = io.WriteString(w, sb.String())
	return err
}

func clearHistory(w io.Writer, path string) error {
	store, err := openHistory(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Clear(); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, "History cleared")
	return err
}

func openHistory(path string) (*history.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history.path is not set")
	}
	return history.OpenStore(path)
}
