package dashboard

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

//go:embed template.html
var templateHTML string

// featureSizeWarnLimit is the serialized size of one feature's state above
// which a slow-load warning is logged.
const featureSizeWarnLimit = 500 * 1024

// scriptClosePattern matches a closing script tag in any case, which would
// otherwise terminate the inline data script early.
var scriptClosePattern = regexp.MustCompile(`(?i)</script>`)

// RenderMarkdown converts artifact markdown to HTML with goldmark. Render
// failures degrade to empty rather than aborting a generation.
func RenderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// BuildHTML injects the snapshot into the template as an inline script plus
// a refresh loop. Closing script tags inside the JSON are escaped so
// artifact text cannot break out of the data script.
func BuildHTML(snap *Snapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	payload := scriptClosePattern.ReplaceAllString(string(data), `<\/script>`)

	headInject := "  <meta http-equiv=\"refresh\" content=\"2\">\n" +
		"  <script>window.DASHBOARD_DATA = " + payload + ";</script>\n"
	html := strings.Replace(templateHTML, "</head>", headInject+"</head>", 1)
	html = strings.Replace(html, "</body>",
		"<script>setInterval(() => location.reload(), 2000);</script>\n</body>", 1)

	warnLargeFeatures(snap)
	return html, nil
}

// warnLargeFeatures logs features whose serialized state is big enough to
// slow down the browser.
func warnLargeFeatures(snap *Snapshot) {
	for _, feature := range snap.Features {
		state, ok := snap.FeatureData[feature.ID]
		if !ok {
			continue
		}
		data, err := json.Marshal(state)
		if err != nil {
			continue
		}
		if len(data) > featureSizeWarnLimit {
			sizeMB := float64(len(data)) / (1024 * 1024)
			log.Printf("warning: feature %s: large artifacts detected (%.1f MB), dashboard may load slowly", feature.ID, sizeMB)
		}
	}
}

// WriteAtomic writes content via a temp file and rename so a half-written
// dashboard is never observable.
func WriteAtomic(outputPath, content string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	tmpPath := outputPath + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, outputPath)
}

// Generate assembles, renders, and writes one snapshot, logging a one-line
// summary on success.
func Generate(ctx context.Context, a *Assembler, outputPath string) error {
	snap, err := a.Assemble(ctx)
	if err != nil {
		return err
	}
	html, err := BuildHTML(snap)
	if err != nil {
		return err
	}
	if err := WriteAtomic(outputPath, html); err != nil {
		return err
	}
	log.Printf("generated %s (%d KB)", filepath.Base(outputPath), len(html)/1024)
	return nil
}
