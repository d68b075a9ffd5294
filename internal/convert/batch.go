package convert

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mgpai22/dscsub/internal/pvdb"
)

// one song and the script files found for it, in database order
type Job struct {
	SongID  int
	Scripts []string
}

type Result struct {
	SongID int
	Script string
	Files  []string
	Err    error
}

// resolves a database script path (either separator) under source
func ResolveScript(source, ref string) string {
	return filepath.Join(source, filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/")))
}

// groups existing script files per song; missing files are skipped
func Discover(db *pvdb.DB, source string) []Job {
	bySong := make(map[int]*Job)
	for _, ref := range db.ScriptFiles() {
		id, ok := ref.SongID()
		if !ok {
			continue
		}
		path := ResolveScript(source, ref.Path)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		job := bySong[id]
		if job == nil {
			job = &Job{SongID: id}
			bySong[id] = job
		}
		job.Scripts = append(job.Scripts, path)
	}

	jobs := make([]Job, 0, len(bySong))
	for _, job := range bySong {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].SongID < jobs[j].SongID
	})
	return jobs
}

// converts jobs on a bounded pool; a failed song never stops the others
func (c *Converter) Run(ctx context.Context, jobs []Job, concurrency int) []Result {
	if len(jobs) == 0 {
		return nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	workChan := make(chan Job, len(jobs))
	resultChan := make(chan Result, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Go(func() {
			for job := range workChan {
				resultChan <- c.runJob(ctx, job)
			}
		})
	}

	for _, job := range jobs {
		workChan <- job
	}
	close(workChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]Result, 0, len(jobs))
	for result := range resultChan {
		results = append(results, result)
	}

	// sort by song to keep reports stable
	sort.Slice(results, func(i, j int) bool {
		return results[i].SongID < results[j].SongID
	})
	return results
}

func (c *Converter) runJob(ctx context.Context, job Job) Result {
	result := Result{SongID: job.SongID}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}
	if len(job.Scripts) == 0 {
		return result
	}

	result.Script = job.Scripts[0]
	c.logger.Infow("Converting", "song", job.SongID, "script", result.Script)

	result.Files, result.Err = c.ConvertFile(job.SongID, result.Script)
	if result.Err != nil {
		c.logger.Errorw("Conversion failed", "song", job.SongID, "error", result.Err)
	}
	return result
}
