package dashboard

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Invalidator lets watch mode drop per-feature caches before a regenerate.
type Invalidator interface {
	Invalidate(featureID string)
}

// Watcher regenerates the dashboard whenever project artifacts change.
// Events are debounced: bursts of writes (editor saves, git checkouts)
// collapse into one regeneration after the quiet period.
type Watcher struct {
	Assembler  *Assembler
	OutputPath string
	Debounce   time.Duration
	Caches     []Invalidator

	// ResetEvalCache clears the tile eval cache before a regenerate, when
	// eval fetching is enabled.
	ResetEvalCache func()
}

// Run watches until ctx is canceled. New feature directories are picked up
// as they appear; the output file itself is ignored to avoid feedback.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := w.addDirs(fw); err != nil {
		return err
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) {
				continue
			}
			// A new directory must be watched before its contents settle.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					fw.Add(event.Name)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.Debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)

		case <-fire:
			if w.ResetEvalCache != nil {
				w.ResetEvalCache()
			}
			for _, cache := range w.Caches {
				for _, id := range w.Assembler.Source.FeatureIDs() {
					cache.Invalidate(id)
				}
			}
			if err := Generate(ctx, w.Assembler, w.OutputPath); err != nil {
				log.Printf("regenerate failed: %v", err)
			}
			if err := w.addDirs(fw); err != nil {
				log.Printf("watch refresh failed: %v", err)
			}
		}
	}
}

// addDirs (re)registers the project root, specs/, and every feature
// directory with its nested artifact dirs. Adding an already-watched path
// is a no-op.
func (w *Watcher) addDirs(fw *fsnotify.Watcher) error {
	root := w.Assembler.ProjectPath
	if err := fw.Add(root); err != nil {
		return err
	}
	specsDir := filepath.Join(root, "specs")
	if _, err := os.Stat(specsDir); err != nil {
		return nil
	}
	fw.Add(specsDir)
	for _, id := range w.Assembler.Source.FeatureIDs() {
		featureDir := filepath.Join(specsDir, id)
		fw.Add(featureDir)
		for _, sub := range []string{"checklists", "tests", filepath.Join("tests", "features")} {
			dir := filepath.Join(featureDir, sub)
			if _, err := os.Stat(dir); err == nil {
				fw.Add(dir)
			}
		}
	}
	return nil
}

// ignored filters events from the output artifact and editor temp files.
func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && strings.HasSuffix(base, ".swp") {
		return true
	}
	if strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, "~") {
		return true
	}
	rel, err := filepath.Rel(w.Assembler.ProjectPath, path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(rel, ".specify"+string(filepath.Separator)) || rel == ".specify"
}
