package cmd

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/boxart-tools/boxart/internal/mediafs"
	"github.com/boxart-tools/boxart/internal/mix"
)

var mixCmd = &cobra.Command{
	Use:   "mix",
	Short: "Compose a mix thumbnail from explicit layer files",
	Long: `Compose a fixed-canvas mix thumbnail from explicit layer files. The
screenshot is mandatory; marquee, 3D box and physical media layers are
optional and simply omitted when not given.

Examples:
  # Screenshot plus logo
  boxart mix --screenshot shot.png --marquee logo.png -o mix.png

  # All four layers
  boxart mix --screenshot shot.png --marquee logo.png --box box.png --physical-media disc.png -o mix.png`,
	RunE: runMix,
}

func init() {
	rootCmd.AddCommand(mixCmd)

	mixCmd.Flags().String("screenshot", "", "screenshot image file (required)")
	mixCmd.Flags().String("marquee", "", "marquee/logo image file")
	mixCmd.Flags().String("box", "", "3D box image file")
	mixCmd.Flags().String("physical-media", "", "physical media image file")
	mixCmd.Flags().StringP("output", "o", "", "output PNG file (required)")
}

func runMix(cmd *cobra.Command, args []string) error {
	screenshotPath, _ := cmd.Flags().GetString("screenshot")
	outputPath, _ := cmd.Flags().GetString("output")
	if screenshotPath == "" {
		return fmt.Errorf("screenshot is required (use --screenshot)")
	}
	if outputPath == "" {
		return fmt.Errorf("output file is required (use --output)")
	}

	screenshot, err := mediafs.LoadImage(screenshotPath)
	if err != nil {
		return err
	}

	loadOptional := func(flag string) (image.Image, error) {
		path, _ := cmd.Flags().GetString(flag)
		if path == "" {
			return nil, nil
		}
		return mediafs.LoadImage(path)
	}

	marquee, err := loadOptional("marquee")
	if err != nil {
		return err
	}
	box3d, err := loadOptional("box")
	if err != nil {
		return err
	}
	physical, err := loadOptional("physical-media")
	if err != nil {
		return err
	}

	result, err := mix.Compose(screenshot, marquee, box3d, physical, mix.DefaultLayout())
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
