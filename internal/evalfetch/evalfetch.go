// Package evalfetch pulls dependency evaluation scores from the tessl CLI.
// Results are cached per tile for the lifetime of the fetcher, failures
// included: a tile that failed once stays null until the cache is
// invalidated, so a broken CLI never stalls repeated regenerations.
package evalfetch

import (
	"context"
	"encoding/json"
	"math"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Summary is the condensed result of a completed eval run.
type Summary struct {
	Score      int       `json:"score"`
	Multiplier *float64  `json:"multiplier"`
	ChartData  ChartData `json:"chartData"`
}

// ChartData counts fully-passing vs failing assessments.
type ChartData struct {
	Pass int `json:"pass"`
	Fail int `json:"fail"`
}

// CommandRunner executes a CLI invocation and returns its stdout. Injected
// in tests.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Fetcher resolves eval summaries through the tessl CLI.
type Fetcher struct {
	Command     string
	ListTimeout time.Duration
	ViewTimeout time.Duration
	Run         CommandRunner

	mu    sync.Mutex
	cache map[string]*Summary
}

// New returns a Fetcher using the real CLI.
func New(command string, listTimeout, viewTimeout time.Duration) *Fetcher {
	return &Fetcher{
		Command:     command,
		ListTimeout: listTimeout,
		ViewTimeout: viewTimeout,
		Run:         runCommand,
		cache:       make(map[string]*Summary),
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Fetch returns the eval summary for a tile, nil when no completed run
// exists or the CLI fails.
func (f *Fetcher) Fetch(ctx context.Context, tileName string) *Summary {
	f.mu.Lock()
	if cached, ok := f.cache[tileName]; ok {
		f.mu.Unlock()
		return cached
	}
	f.mu.Unlock()

	summary := f.fetch(ctx, tileName)

	f.mu.Lock()
	f.cache[tileName] = summary
	f.mu.Unlock()
	return summary
}

// Invalidate clears the whole cache.
func (f *Fetcher) Invalidate() {
	f.mu.Lock()
	f.cache = make(map[string]*Summary)
	f.mu.Unlock()
}

func (f *Fetcher) fetch(ctx context.Context, tileName string) *Summary {
	listCtx, cancel := context.WithTimeout(ctx, f.ListTimeout)
	defer cancel()
	listOut, err := f.Run(listCtx, f.Command, "eval", "list", "--json", "--tile", tileName, "--limit", "1")
	if err != nil {
		return nil
	}

	var list struct {
		Data []struct {
			ID         string `json:"id"`
			Attributes struct {
				Status string `json:"status"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(jsonTail(listOut), &list); err != nil {
		return nil
	}
	runID := ""
	for _, run := range list.Data {
		if run.Attributes.Status == "completed" {
			runID = run.ID
			break
		}
	}
	if runID == "" {
		return nil
	}

	viewCtx, cancel := context.WithTimeout(ctx, f.ViewTimeout)
	defer cancel()
	viewOut, err := f.Run(viewCtx, f.Command, "eval", "view", "--json", runID)
	if err != nil {
		return nil
	}

	var view struct {
		Data evalRun `json:"data"`
	}
	if err := json.Unmarshal(jsonTail(viewOut), &view); err != nil {
		return nil
	}
	return summarize(view.Data)
}

type evalRun struct {
	Attributes struct {
		Scenarios []struct {
			Solutions []struct {
				Variant           string `json:"variant"`
				AssessmentResults []struct {
					Score    float64 `json:"score"`
					MaxScore float64 `json:"max_score"`
				} `json:"assessmentResults"`
			} `json:"solutions"`
		} `json:"scenarios"`
	} `json:"attributes"`
}

// summarize folds assessment results into a score out of 100 plus a
// baseline multiplier. An assessment passes only at full score.
func summarize(run evalRun) *Summary {
	var usageTotal, usageMax, baselineTotal float64
	var pass, fail int
	for _, scenario := range run.Attributes.Scenarios {
		for _, sol := range scenario.Solutions {
			switch sol.Variant {
			case "usage-spec":
				for _, r := range sol.AssessmentResults {
					usageTotal += r.Score
					usageMax += r.MaxScore
					if r.Score == r.MaxScore {
						pass++
					} else {
						fail++
					}
				}
			case "baseline":
				for _, r := range sol.AssessmentResults {
					baselineTotal += r.Score
				}
			}
		}
	}
	if usageMax == 0 {
		return nil
	}
	s := &Summary{
		Score:     int(math.Round(usageTotal / usageMax * 100)),
		ChartData: ChartData{Pass: pass, Fail: fail},
	}
	if baselineTotal > 0 {
		m := math.Round(usageTotal/baselineTotal*100) / 100
		s.Multiplier = &m
	}
	return s
}

// jsonTail trims CLI banner noise before the first brace.
func jsonTail(out []byte) []byte {
	if i := strings.IndexByte(string(out), '{'); i >= 0 {
		return out[i:]
	}
	return out
}
