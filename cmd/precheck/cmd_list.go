package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vertti/precheck/pkg/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the checks a run would execute",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	list, err := loadList(logger)
	if err != nil {
		return err
	}

	source := list.Source
	if source == "" {
		source = "built-in"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "checks from %s\n", source)

	exec := newExecRunner(0)
	rows := make([][]string, 0, len(list.All()))
	for _, c := range list.All() {
		found := "yes"
		if _, err := exec.LookPath(c.Executable()); err != nil {
			found = "no"
		}
		rows = append(rows, []string{c.Name, string(c.Mode), c.Command(), found})
	}
	fmt.Fprintln(cmd.OutOrStdout(), output.RenderTable([]string{"Check", "Mode", "Command", "In PATH"}, rows))
	return nil
}
