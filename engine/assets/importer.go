// Package assets runs the collision postprocess as part of importing model
// files and writes the processed models back out.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/memmaker/collisionpost/engine/config"
	"github.com/memmaker/collisionpost/engine/postprocess"
	"github.com/memmaker/collisionpost/engine/scene"
	"github.com/memmaker/collisionpost/engine/util"
	"github.com/pkg/errors"
)

type Importer struct {
	cfg    config.Config
	logger util.Logger
	post   *postprocess.CollisionPostprocessor

	mu      sync.Mutex
	written map[string]time.Time
}

func NewImporter(cfg config.Config, logger util.Logger) *Importer {
	if logger == nil {
		logger = util.NopLogger{}
	}
	return &Importer{
		cfg:     cfg,
		logger:  logger,
		post:    postprocess.New(logger),
		written: make(map[string]time.Time),
	}
}

// IsModelFile reports whether path has one of the configured extensions and
// is not itself an output of this importer.
func (i *Importer) IsModelFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	matched := false
	for _, e := range i.cfg.Extensions {
		if ext == e {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	suffix := i.cfg.Output.Suffix
	if suffix == "" {
		return true
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return !strings.HasSuffix(base, suffix)
}

// OutputPath is where the processed version of input is written.
func (i *Importer) OutputPath(input string) string {
	dir := i.cfg.Output.Dir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(filepath.Base(input), ext)
	return filepath.Join(dir, base+i.cfg.Output.Suffix+ext)
}

func ReportPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".colliders.yaml"
}

// ImportFile loads a model, resolves its placeholders and saves the result.
func (i *Importer) ImportFile(path string) (*Report, error) {
	util.LogIODebug(i.logger, fmt.Sprintf("loading %s", path))
	model, err := scene.LoadGLTF(path)
	if err != nil {
		return nil, errors.Wrap(err, "import")
	}

	result := i.post.OnPostprocessModel(model.RootNode)

	output := i.OutputPath(path)
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, errors.Wrapf(err, "import: create output dir for %s", output)
	}
	i.markWritten(output)
	if err := model.SaveGLTF(output); err != nil {
		return nil, errors.Wrap(err, "import")
	}

	report := NewReport(path, output, result)
	if i.cfg.Output.Report {
		reportPath := ReportPath(output)
		if err := report.WriteFile(reportPath); err != nil {
			return nil, errors.Wrap(err, "import")
		}
		util.LogIODebug(i.logger, fmt.Sprintf("wrote report %s", reportPath))
	}
	util.LogIOInfo(i.logger, fmt.Sprintf("%s -> %s: %d collider(s), %d placeholder(s) removed, %d socket(s) renamed",
		path, output, len(report.Colliders), len(report.Removed), len(report.Renamed)))
	return report, nil
}

// ImportDir imports every model file directly inside dir. It keeps going after
// a failed file and returns the first error.
func (i *Importer) ImportDir(dir string) ([]*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "import: read dir %s", dir)
	}
	var reports []*Report
	var firstErr error
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() || !i.IsModelFile(path) {
			continue
		}
		report, err := i.ImportFile(path)
		if err != nil {
			util.LogImportError(i.logger, err.Error())
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		reports = append(reports, report)
	}
	return reports, firstErr
}

func (i *Importer) markWritten(path string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.written[filepath.Clean(path)] = time.Now()
}

// recentlyWritten is true for files this importer wrote within window.
func (i *Importer) recentlyWritten(path string, window time.Duration) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	path = filepath.Clean(path)
	at, ok := i.written[path]
	if !ok {
		return false
	}
	if time.Since(at) > window {
		delete(i.written, path)
		return false
	}
	return true
}
