package cli

import (
	"fmt"
	"time"

	"github.com/mgpai22/dscsub/internal/config"
	"github.com/mgpai22/dscsub/internal/convert"
	"github.com/mgpai22/dscsub/internal/subtitle"
	"github.com/spf13/cobra"
)

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().
		String("db", "", "pv_db text database (or set database in the config file)")
	cmd.Flags().
		String("encoding", "utf-8", "Database text encoding (utf-8, shift-jis)")
	cmd.Flags().
		StringP("destination", "d", ".", "Output directory")
	cmd.Flags().
		StringP("format", "f", "vtt", "Output format (vtt, srt, ass, yaml, sqlite)")
	cmd.Flags().
		Float64("offset", 0, "Shift every cue by this many seconds (may be negative)")
	cmd.Flags().
		Bool("inline", false, "Write YAML table rows in flow style")
	cmd.Flags().
		Float64("last-cue", 5, "Duration in seconds of the final cue")
	cmd.Flags().
		String("song-name-tag", "_en", "Suffix of the song_name key used for the subtitle title")
}

// database settings plus converter options; explicitly set flags beat the config file
type runSettings struct {
	Database    string
	Encoding    string
	Concurrency int
	Options     convert.Options
}

func resolveSettings(cmd *cobra.Command, base *config.Config) (runSettings, error) {
	c := *base
	flags := cmd.Flags()

	if flags.Changed("db") {
		c.Database, _ = flags.GetString("db")
	}
	if flags.Changed("encoding") {
		c.Encoding, _ = flags.GetString("encoding")
	}
	if flags.Changed("destination") {
		c.Destination, _ = flags.GetString("destination")
	}
	if flags.Changed("format") {
		c.Format, _ = flags.GetString("format")
	}
	if flags.Changed("offset") {
		c.Offset, _ = flags.GetFloat64("offset")
	}
	if flags.Changed("inline") {
		c.Inline, _ = flags.GetBool("inline")
	}
	if flags.Changed("last-cue") {
		c.LastCue, _ = flags.GetFloat64("last-cue")
	}
	if flags.Changed("song-name-tag") {
		c.SongNameTag, _ = flags.GetString("song-name-tag")
	}
	if f := flags.Lookup("concurrency"); f != nil && f.Changed {
		c.Concurrency, _ = flags.GetInt("concurrency")
	}

	if err := c.Validate(); err != nil {
		return runSettings{}, err
	}
	if c.Database == "" {
		return runSettings{}, fmt.Errorf("database is required: use --db or set database in the config file")
	}

	format, err := subtitle.ParseFormat(c.Format)
	if err != nil {
		return runSettings{}, err
	}

	return runSettings{
		Database:    c.Database,
		Encoding:    c.Encoding,
		Concurrency: c.Concurrency,
		Options: convert.Options{
			Destination: c.Destination,
			Format:      format,
			Inline:      c.Inline,
			Offset:      seconds(c.Offset),
			LastCue:     seconds(c.LastCue),
			SongNameTag: c.SongNameTag,
		},
	}, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
