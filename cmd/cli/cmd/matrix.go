// Package cmd - build-matrix command
package cmd

import (
	"github.com/spf13/cobra"

	"tollgrid/core/output"
	"tollgrid/internal/config"
)

var matrixOutput string

// buildMatrixCmd rebuilds the matrices of a toll file
var buildMatrixCmd = &cobra.Command{
	Use:   "build-matrix <toll-file>",
	Short: "Fill the entry/exit matrices of a toll definition file",
	Long: `Load every price list, rebuild the car and motorcycle matrices of each
toll whose rules are exactly ["entry_exit_price"], and write the result.
Other tolls are copied unchanged.

Examples:
  tollgrid build-matrix tolls.json
  tollgrid build-matrix --output rebuilt.json tolls.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBuildMatrix,
}

func init() {
	buildMatrixCmd.Flags().StringVarP(&matrixOutput, "output", "o", "", "output file (default from config, out.json)")
	rootCmd.AddCommand(buildMatrixCmd)
}

func runBuildMatrix(cmd *cobra.Command, args []string) error {
	out := matrixOutput
	if out == "" {
		out = config.Get().Output.File
	}

	eng, err := loadEngine()
	if err != nil {
		return err
	}
	reports, err := eng.BuildMatrix(args[0], out)
	if err != nil {
		return err
	}
	return render(cmd, output.BuildResult{Input: args[0], Output: out, Reports: reports})
}
