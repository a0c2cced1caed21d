package repository

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"homebuilder-proforma/domain"
)

//go:embed templates/coa_templates.yaml
var defaultTemplates []byte

type catalogFile struct {
	Templates []domain.COATemplate `yaml:"templates"`
}

// TemplateCatalog holds chart-of-accounts templates by key.
type TemplateCatalog struct {
	mu        sync.RWMutex
	templates map[string]domain.COATemplate
}

// LoadTemplateCatalog parses the embedded catalog and, when path is set,
// merges the templates from that file over it.
func LoadTemplateCatalog(path string) (*TemplateCatalog, error) {
	c, err := ParseTemplateCatalog(defaultTemplates)
	if err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates file: %w", err)
	}
	override, err := ParseTemplateCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parse templates file %s: %w", path, err)
	}
	for _, t := range override.All() {
		c.Put(t)
	}
	return c, nil
}

// ParseTemplateCatalog builds a catalog from YAML.
func ParseTemplateCatalog(data []byte) (*TemplateCatalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	c := &TemplateCatalog{templates: make(map[string]domain.COATemplate, len(f.Templates))}
	for _, t := range f.Templates {
		if t.Key == "" {
			return nil, fmt.Errorf("template %q has no key", t.Name)
		}
		if _, dup := c.templates[t.Key]; dup {
			return nil, fmt.Errorf("duplicate template key %q", t.Key)
		}
		c.templates[t.Key] = t
	}
	return c, nil
}

func (c *TemplateCatalog) Get(key string) (domain.COATemplate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.templates[key]
	if !ok {
		return domain.COATemplate{}, fmt.Errorf("template %s: %w", key, ErrNotFound)
	}
	return t, nil
}

func (c *TemplateCatalog) Put(t domain.COATemplate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates[t.Key] = t
}

// All returns the templates sorted by key.
func (c *TemplateCatalog) All() []domain.COATemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.COATemplate, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
