// internal/category/category.go

// Package category exposes the configured knowledge categories (zodiac,
// planets, ...) as plain records the pipeline consumes. Adding a category is
// a config change, not a code change.
package category

import (
	"sort"

	"astrogen/internal/common/config"
	"astrogen/internal/generator"
)

// Category is the full description of one knowledge category.
type Category struct {
	Name           string
	TemplatePath   string
	DataPath       string
	OutputBasename string
	Enabled        bool
}

// RunSpec converts the category into the generator's run specification.
func (c Category) RunSpec() generator.RunSpec {
	return generator.RunSpec{
		Category:     c.Name,
		TemplatePath: c.TemplatePath,
		BaseFilename: c.OutputBasename,
		DataPath:     c.DataPath,
	}
}

// FromConfig returns all configured categories sorted by name, so run order
// is deterministic across invocations.
func FromConfig(cfg *config.Config) []Category {
	out := make([]Category, 0, len(cfg.Categories))
	for name, cc := range cfg.Categories {
		out = append(out, Category{
			Name:           name,
			TemplatePath:   cc.TemplatePath,
			DataPath:       cc.DataPath,
			OutputBasename: cc.OutputBasename,
			Enabled:        cc.Enabled,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Enabled filters the configured categories down to the runnable ones.
func Enabled(cfg *config.Config) []Category {
	all := FromConfig(cfg)
	out := make([]Category, 0, len(all))
	for _, c := range all {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}
