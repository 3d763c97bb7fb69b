package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const timestampLayout = "20060102_150405"

// RenderError reports a failure to materialize the report artifacts.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string { return fmt.Sprintf("rendering %s: %v", e.Path, e.Err) }

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer writes report artifacts under a single output directory.
type Renderer struct {
	outputDir string
}

// NewRenderer returns a Renderer that writes to outputDir, creating it on
// first use.
func NewRenderer(outputDir string) *Renderer {
	return &Renderer{outputDir: outputDir}
}

// Write renders doc into assessment_<subject>_<timestamp>.json and .md.
// Both artifacts are rendered before anything touches the filesystem, files
// are created exclusively (a name collision is an error, never an
// overwrite), and if the second write fails the first file is removed, so a
// failed run leaves zero files behind.
func (r *Renderer) Write(doc *Document) (jsonPath, mdPath string, err error) {
	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", "", &RenderError{Path: r.outputDir, Err: err}
	}
	markdown, err := renderMarkdown(doc)
	if err != nil {
		return "", "", &RenderError{Path: r.outputDir, Err: err}
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", "", &RenderError{Path: r.outputDir, Err: err}
	}

	stem := fmt.Sprintf("assessment_%s_%s",
		doc.Metadata.Subject, doc.Metadata.GeneratedAt.Format(timestampLayout))
	jsonPath = filepath.Join(r.outputDir, stem+".json")
	mdPath = filepath.Join(r.outputDir, stem+".md")

	if err := writeExclusive(jsonPath, jsonBytes); err != nil {
		return "", "", &RenderError{Path: jsonPath, Err: err}
	}
	if err := writeExclusive(mdPath, []byte(markdown)); err != nil {
		os.Remove(jsonPath)
		return "", "", &RenderError{Path: mdPath, Err: err}
	}

	slog.Info("wrote reports", "json", jsonPath, "markdown", mdPath)
	return jsonPath, mdPath, nil
}

func writeExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
