package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	assemble "shortform-studio/09_assemble"
)

var assembleRoot string

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble a final video from an existing project directory",
	Long: `assemble re-runs only the timeline assembly over a project directory
that already contains scene_<n> folders with voiceovers, images, and
optionally videos. Useful after swapping assets by hand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		asm := assemble.NewAssembler(cfg.Assembly, cfg.Images.Width, cfg.Images.Height, log)
		out, err := asm.AssembleRoot(cmd.Context(), assembleRoot)
		if err != nil {
			return err
		}
		fmt.Printf("Final video: %s\n", out)
		return nil
	},
}

func init() {
	assembleCmd.Flags().StringVar(&assembleRoot, "root", "", "project directory containing scene_<n> folders")
	_ = assembleCmd.MarkFlagRequired("root")
	rootCmd.AddCommand(assembleCmd)
}
