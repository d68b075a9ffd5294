package convert

import (
	"fmt"
	"io"
	"iter"
	"os"
	"time"

	"github.com/mgpai22/dscsub/internal/dsc"
	"github.com/mgpai22/dscsub/internal/logging"
	"github.com/mgpai22/dscsub/internal/lyrics"
	"github.com/mgpai22/dscsub/internal/pvdb"
	"github.com/mgpai22/dscsub/internal/subtitle"
	"github.com/mgpai22/dscsub/internal/timeline"
)

type Options struct {
	Destination string
	Format      subtitle.Format
	Inline      bool
	Offset      time.Duration
	LastCue     time.Duration
	SongNameTag string
}

// turns DSC scripts plus the database into per-language subtitle files
type Converter struct {
	db     *pvdb.DB
	opts   Options
	logger *logging.Logger
}

func New(db *pvdb.DB, opts Options, logger *logging.Logger) *Converter {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.LastCue <= 0 {
		opts.LastCue = 5 * time.Second
	}
	if opts.Format == "" {
		opts.Format = subtitle.FormatVTT
	}
	return &Converter{db: db, opts: opts, logger: logger}
}

// per-language tracks of one song from a decoded command stream
func (c *Converter) Tracks(songID int, cmds iter.Seq2[dsc.Command, error]) ([]lyrics.Track, error) {
	tl, err := timeline.Build(cmds)
	if err != nil {
		return nil, fmt.Errorf("failed to read DSC commands: %w", err)
	}
	return lyrics.Assemble(tl, c.db.Lyrics(songID)), nil
}

// converts one song read from r and returns the files written
func (c *Converter) Convert(songID int, r io.Reader) ([]string, error) {
	tracks, err := c.Tracks(songID, dsc.Commands(r))
	if err != nil {
		return nil, err
	}

	name, _ := c.db.SongName(songID, c.opts.SongNameTag)
	log := c.logger.With("song", songID)
	if len(tracks) == 0 {
		log.Warnw("No lyrics found in database")
		return nil, nil
	}

	files := make([]string, 0, len(tracks))
	for _, track := range tracks {
		path, err := c.writeTrack(songID, name, track)
		if err != nil {
			return files, err
		}
		log.Debugw("Wrote track",
			"language", track.Language,
			"cues", len(track.Cues),
			"filled", track.Filled(),
			"path", path,
		)
		files = append(files, path)
	}
	return files, nil
}

func (c *Converter) ConvertFile(songID int, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open DSC file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	files, err := c.Convert(songID, f)
	if err != nil {
		return files, fmt.Errorf("%s: %w", path, err)
	}
	return files, nil
}

func (c *Converter) writeTrack(songID int, name string, track lyrics.Track) (string, error) {
	cues := make([]subtitle.Cue, 0, len(track.Cues))
	for _, cue := range track.Cues {
		cues = append(cues, subtitle.Cue{StartTime: cue.At.Duration(), Text: cue.Text})
	}

	generator := subtitle.NewDefaultGenerator()
	generator.Offset = c.opts.Offset
	generator.LastDuration = c.opts.LastCue

	subs, err := generator.Generate(cues)
	if err != nil {
		return "", fmt.Errorf("failed to generate subtitles: %w", err)
	}
	subs.Title = name
	subs.Language = track.Language
	subs.Format = string(c.opts.Format)

	writer, err := subtitle.NewWriter(c.opts.Format, subtitle.WithInline(c.opts.Inline))
	if err != nil {
		return "", fmt.Errorf("failed to create subtitle writer: %w", err)
	}

	path := subtitle.OutputPath(c.opts.Destination, songID, track.Language, c.opts.Format)
	if err := writer.Write(subs, path); err != nil {
		return "", fmt.Errorf("failed to write subtitles: %w", err)
	}
	return path, nil
}
