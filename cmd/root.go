package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "1.0.0"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "boxart",
	Short: "Generate 3D box renders and mix thumbnails for a game library",
	Long: `boxart turns flat cover scans into pseudo-3D box renders and assembles
per-game mix thumbnails from screenshots, logos and box art.

It understands the standard media folder layout (covers/, screenshots/,
marquees/, 3dboxes/, physicalmedia/, miximages/) and can process a single
file, a whole library, or run as an HTTP service.

Examples:
  # Render a single cover as a 3D box
  boxart box --cover covers/Okami.png --platform ps2 --title "Okami" -o Okami-3d.png

  # Compose a mix thumbnail from explicit layers
  boxart mix --screenshot shot.png --marquee logo.png --box box.png -o mix.png

  # Generate box and mix artwork for one game in a media tree
  boxart game --media-path ~/.emulationstation/downloaded_media/ps2 --rom "./Okami.iso"

  # Process every game with a cover
  boxart game --media-path ~/.emulationstation/downloaded_media/ps2 --all

  # Start HTTP server
  boxart serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.boxart.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".boxart" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".boxart")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
