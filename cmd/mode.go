package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/rawline/internal/config"
	"github.com/zjrosen/rawline/internal/instr"
)

var modeCmd = &cobra.Command{
	Use:   "mode [emacs|vi]",
	Short: "Show or set the editing mode",
	Long: `Show the configured editing mode, or save a new one to the config file.

A running shell picks up the change at its next prompt.

Examples:
  rawline mode
  rawline mode vi`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"emacs", "vi"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), cfg.EditMode())
			return err
		}
		return setMode(cmd.OutOrStdout(), configFilePath(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(modeCmd)
}

func setMode(w io.Writer, path, name string) error {
	mode, err := instr.ParseEditMode(name)
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("no config file to save to")
	}
	if err := config.SaveMode(path, mode); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Edit mode set to %s in %s\n", mode, path)
	return err
}
