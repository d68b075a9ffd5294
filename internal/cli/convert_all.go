package cli

import (
	"fmt"
	"os"

	"github.com/mgpai22/dscsub/internal/convert"
	"github.com/mgpai22/dscsub/internal/pvdb"
	"github.com/spf13/cobra"
)

var convertAllCmd = &cobra.Command{
	Use:   "convert-all [source_dir]",
	Short: "Generate lyric subtitles for every song referenced by the database",
	Long: `Generate lyric subtitles for every song whose script_file_name entries
point to an existing DSC file under the source directory.

Songs are converted in parallel. A song that fails is reported and skipped;
the command exits with an error after all songs have been attempted.

Examples:
  dscsub convert-all . --db mod_pv_db.txt --destination subtitles
  dscsub convert-all mods/songpack --db mods/songpack/rom/mod_pv_db.txt -f srt --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runConvertAll,
}

func init() {
	rootCmd.AddCommand(convertAllCmd)

	addConvertFlags(convertAllCmd)
	convertAllCmd.Flags().
		Int("concurrency", 4, "Number of songs converted in parallel")
}

func runConvertAll(cmd *cobra.Command, args []string) error {
	source := args[0]
	if info, err := os.Stat(source); err != nil || !info.IsDir() {
		return fmt.Errorf("source directory not found: %s", source)
	}

	settings, err := resolveSettings(cmd, cfg)
	if err != nil {
		return err
	}

	db, err := pvdb.Load(settings.Database, settings.Encoding)
	if err != nil {
		return err
	}

	logger.Infow("Found script references", "count", len(db.ScriptFiles()))

	jobs := convert.Discover(db, source)
	logger.Infow("Found unique songs", "count", len(jobs))

	if err := os.MkdirAll(settings.Options.Destination, 0755); err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	converter := convert.New(db, settings.Options, logger)
	results := converter.Run(cmd.Context(), jobs, settings.Concurrency)

	var failed, written int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("  pv_%d: FAILED: %v\n", r.SongID, r.Err)
			continue
		}
		written += len(r.Files)
	}

	fmt.Printf("Converted %d of %d songs (%d files)\n", len(results)-failed, len(results), written)
	if failed > 0 {
		return fmt.Errorf("%d songs failed", failed)
	}
	return nil
}
