package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/boxart-tools/boxart/internal/box"
	"github.com/boxart-tools/boxart/internal/mediafs"
	"github.com/boxart-tools/boxart/internal/spine"
)

var boxCmd = &cobra.Command{
	Use:   "box",
	Short: "Render a flat cover scan as a pseudo-3D box",
	Long: `Render a flat cover scan as a pseudo-3D box with a decorated spine
and a drop shadow, written as a transparent-background PNG.

Examples:
  # Default render
  boxart box --cover Okami.png -o Okami-3d.png

  # PS2 case styling with a spine title
  boxart box --cover Okami.png --platform ps2 --title "Okami" -o Okami-3d.png

  # Flatter perspective, no shadow
  boxart box --cover Okami.png --depth 0.15 --shadow=false -o Okami-3d.png`,
	RunE: runBox,
}

func init() {
	rootCmd.AddCommand(boxCmd)

	boxCmd.Flags().String("cover", "", "cover image file (required)")
	boxCmd.Flags().StringP("output", "o", "", "output PNG file (required)")
	boxCmd.Flags().Float64("spine-ratio", 0.08, "spine width as a fraction of cover width")
	boxCmd.Flags().Float64("depth", 0.30, "perspective depth (0..1)")
	boxCmd.Flags().Bool("shadow", true, "render a drop shadow")
	boxCmd.Flags().String("title", "", "title to typeset on the spine")
	boxCmd.Flags().String("platform", "", "platform code for spine styling (e.g. ps2)")
	boxCmd.Flags().String("font", "", "font file overriding the spine font fallback chain")
	boxCmd.Flags().Int("canvas-width", 0, "fixed canvas width (0 = size from cover)")
	boxCmd.Flags().Int("canvas-height", 0, "fixed canvas height (0 = size from cover)")

	viper.BindPFlag("box.spine-ratio", boxCmd.Flags().Lookup("spine-ratio"))
	viper.BindPFlag("box.depth", boxCmd.Flags().Lookup("depth"))
	viper.BindPFlag("box.shadow", boxCmd.Flags().Lookup("shadow"))
	viper.BindPFlag("box.font", boxCmd.Flags().Lookup("font"))
}

func runBox(cmd *cobra.Command, args []string) error {
	coverPath, _ := cmd.Flags().GetString("cover")
	outputPath, _ := cmd.Flags().GetString("output")
	if coverPath == "" {
		return fmt.Errorf("cover image is required (use --cover)")
	}
	if outputPath == "" {
		return fmt.Errorf("output file is required (use --output)")
	}

	opts := box.Options{
		SpineRatio:   viper.GetFloat64("box.spine-ratio"),
		DepthPercent: viper.GetFloat64("box.depth"),
		Shadow:       viper.GetBool("box.shadow"),
		FontPath:     viper.GetString("box.font"),
	}
	opts.Title, _ = cmd.Flags().GetString("title")
	opts.Platform, _ = cmd.Flags().GetString("platform")
	opts.CanvasW, _ = cmd.Flags().GetInt("canvas-width")
	opts.CanvasH, _ = cmd.Flags().GetInt("canvas-height")

	cover, err := mediafs.LoadImage(coverPath)
	if err != nil {
		return err
	}

	result, err := box.Synthesize(cover, opts, spine.NewRegistry())
	if err != nil {
		return err
	}

	if err := mediafs.SavePNG(outputPath, result); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%dx%d)\n", outputPath,
		result.Bounds().Dx(), result.Bounds().Dy())
	return nil
}
