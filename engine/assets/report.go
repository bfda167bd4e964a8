package assets

import (
	"os"

	"github.com/memmaker/collisionpost/engine/physics"
	"github.com/memmaker/collisionpost/engine/postprocess"
	"github.com/memmaker/collisionpost/engine/scene"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Report is the YAML summary written next to a processed model.
type Report struct {
	Source    string          `yaml:"source"`
	Output    string          `yaml:"output"`
	Colliders []ColliderEntry `yaml:"colliders"`
	Removed   []string        `yaml:"removed,omitempty"`
	Renamed   []RenameEntry   `yaml:"renamed,omitempty"`
}

type ColliderEntry struct {
	Node                 string `yaml:"node"`
	Placeholder          string `yaml:"placeholder"`
	scene.ColliderRecord `yaml:",inline"`
	WorldBounds          *Bounds `yaml:"world_bounds,omitempty"`
}

type Bounds struct {
	Min [3]float32 `yaml:"min,flow"`
	Max [3]float32 `yaml:"max,flow"`
}

type RenameEntry struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

func NewReport(source, output string, result *postprocess.Result) *Report {
	report := &Report{
		Source:    source,
		Output:    output,
		Colliders: make([]ColliderEntry, 0, len(result.Attachments)),
		Removed:   result.Removed,
	}
	for _, a := range result.Attachments {
		entry := ColliderEntry{
			Node:           a.Parent.Path(),
			Placeholder:    a.Placeholder,
			ColliderRecord: scene.NewColliderRecord(a.Collider),
		}
		if bounded, ok := a.Collider.(physics.Bounded); ok {
			world := bounded.GetAABB().Transform(a.Parent.GetTransformMatrix())
			entry.WorldBounds = &Bounds{Min: world.Min(), Max: world.Max()}
		}
		report.Colliders = append(report.Colliders, entry)
	}
	for _, r := range result.Renamed {
		report.Renamed = append(report.Renamed, RenameEntry{From: r.From, To: r.To})
	}
	return report
}

func (r *Report) WriteFile(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrapf(err, "report: marshal %s", path)
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "report: write %s", path)
}

func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "report: read %s", path)
	}
	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, errors.Wrapf(err, "report: unmarshal %s", path)
	}
	return &report, nil
}
