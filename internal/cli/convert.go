package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mgpai22/dscsub/internal/convert"
	"github.com/mgpai22/dscsub/internal/pvdb"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [song_id]",
	Short: "Generate lyric subtitles for one song",
	Long: `Generate lyric subtitles for one song from its DSC script.

Lyric text is taken from the database entries pv_<id>.lyric[_<lang>].<n>.
One file named pv_<id>_<lang> is written per language found in the database.

Examples:
  dscsub convert 4939 --dsc rom/script/pv_4939_hard.dsc --db mod_pv_db.txt
  dscsub convert 4939 --dsc pv_4939_hard.dsc --db mod_pv_db.txt -d subtitles --offset -0.5
  dscsub convert 1 --dsc pv_001_easy.dsc --db pv_db.txt -f yaml --inline`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	addConvertFlags(convertCmd)
	convertCmd.Flags().
		String("dsc", "", "DSC script of the song (required)")

	_ = convertCmd.MarkFlagRequired("dsc")
}

func runConvert(cmd *cobra.Command, args []string) error {
	songID, err := strconv.Atoi(args[0])
	if err != nil || songID < 1 {
		return fmt.Errorf("invalid song id %q: expected a positive integer", args[0])
	}
	dscPath, _ := cmd.Flags().GetString("dsc")

	settings, err := resolveSettings(cmd, cfg)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dscPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", dscPath)
	}

	logger.Infow("Starting conversion",
		"song", songID,
		"dsc", dscPath,
		"db", settings.Database,
		"format", settings.Options.Format,
		"destination", settings.Options.Destination,
	)

	db, err := pvdb.Load(settings.Database, settings.Encoding)
	if err != nil {
		return err
	}

	converter := convert.New(db, settings.Options, logger)
	files, err := converter.ConvertFile(songID, dscPath)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	for _, f := range files {
		abs, _ := filepath.Abs(f)
		fmt.Printf("Subtitles generated successfully: %s\n", abs)
	}
	if len(files) == 0 {
		fmt.Printf("No lyrics found for song %d\n", songID)
	}
	return nil
}
