package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/boxart-tools/boxart/internal/box"
	"github.com/boxart-tools/boxart/internal/mediafs"
	"github.com/boxart-tools/boxart/internal/mix"
	"github.com/boxart-tools/boxart/internal/spine"
)

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Generate box and mix artwork inside a media tree",
	Long: `Generate 3D box and mix artwork for games inside a standard media tree.

For each game the cover is rendered into 3dboxes/<name>.png, then the mix
thumbnail is composed from the screenshot, marquee, fresh 3D box and
physical media layers into miximages/<name>.png. Games without a
screenshot get a box render but no mix.

Examples:
  # One game, identified by its rom path
  boxart game --media-path ~/.emulationstation/downloaded_media/ps2 --rom "./Okami.iso"

  # Every game that has a cover
  boxart game --media-path ~/.emulationstation/downloaded_media/ps2 --all`,
	RunE: runGame,
}

func init() {
	rootCmd.AddCommand(gameCmd)

	gameCmd.Flags().String("media-path", "", "media tree root (required)")
	gameCmd.Flags().String("rom", "", "rom path; its stem names the artwork files")
	gameCmd.Flags().Bool("all", false, "process every game with a cover")
	gameCmd.Flags().String("platform", "", "platform code for spine styling (default: media path base name)")

	viper.BindPFlag("game.media-path", gameCmd.Flags().Lookup("media-path"))
}

func runGame(cmd *cobra.Command, args []string) error {
	mediaPath := viper.GetString("game.media-path")
	romPath, _ := cmd.Flags().GetString("rom")
	all, _ := cmd.Flags().GetBool("all")

	if mediaPath == "" {
		return fmt.Errorf("media path is required (use --media-path)")
	}
	if romPath == "" && !all {
		return fmt.Errorf("either specify a rom (--rom) or process the whole library (--all)")
	}

	platform, _ := cmd.Flags().GetString("platform")
	if platform == "" {
		platform = filepath.Base(mediaPath)
	}

	var stems []string
	if all {
		var err error
		stems, err = mediafs.CoverStems(mediaPath)
		if err != nil {
			return err
		}
		if len(stems) == 0 {
			return fmt.Errorf("no covers found under %s", mediaPath)
		}
	} else {
		stems = []string{mediafs.RomStem(romPath)}
	}

	registry := spine.NewRegistry()
	layout := mix.DefaultLayout()
	failures := 0
	for _, stem := range stems {
		if err := generateGame(cmd, mediaPath, stem, platform, registry, layout); err != nil {
			failures++
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s: %v\n", stem, err)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d games failed", failures, len(stems))
	}
	return nil
}

// generateGame renders the 3D box first, so the subsequent mix composition
// picks the fresh render up from the 3dboxes folder.
func generateGame(cmd *cobra.Command, mediaPath, stem, platform string, registry *spine.Registry, layout mix.Layout) error {
	assets := mediafs.GameAssets(mediaPath, stem)
	if assets.Cover == "" {
		return fmt.Errorf("no cover found")
	}

	cover, err := mediafs.LoadImage(assets.Cover)
	if err != nil {
		return err
	}

	opts := box.DefaultOptions()
	opts.Title = stem
	opts.Platform = platform
	render, err := box.Synthesize(cover, opts, registry)
	if err != nil {
		return err
	}

	boxOut := mediafs.OutputPath(mediaPath, "3dboxes", stem)
	if err := mediafs.SavePNG(boxOut, render); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", boxOut)

	thumb, err := mix.ForGame(mediaPath, stem, layout)
	if err != nil {
		// A missing screenshot only skips the mix; the box render stands.
		if errors.Is(err, mix.ErrNoScreenshot) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Skipping mix for %s: no screenshot\n", stem)
			return nil
		}
		return err
	}

	mixOut := mediafs.OutputPath(mediaPath, "miximages", stem)
	if err := mediafs.SavePNG(mixOut, thumb); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", mixOut)
	return nil
}
