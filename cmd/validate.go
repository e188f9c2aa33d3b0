package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relseq/relseq/automaton"
)

// validateCmd checks automaton YAML specs and reports the first failure.
var validateCmd = &cobra.Command{
	Use:   "validate [spec files...]",
	Short: "Validate automaton spec files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			aut, err := automaton.LoadSpecFile(path)
			if err != nil {
				return err
			}
			logrus.Infof("%s: automaton %q ok (%d states, %d transitions)",
				path, aut.Name, len(aut.States), len(aut.Transitions))
			fmt.Printf("%s: ok\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
