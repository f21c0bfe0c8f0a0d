package plans

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Plan describes one subscription tier.
type Plan struct {
	ID                   string `yaml:"id" json:"id"`
	DisplayName          string `yaml:"display_name" json:"display_name"`
	MonthlyWordBudget    int    `yaml:"monthly_word_budget" json:"monthly_word_budget"` // 0 = unlimited
	MaxBooks             int    `yaml:"max_books" json:"max_books"`                     // 0 = unlimited
	ContentRetentionDays int    `yaml:"content_retention_days" json:"content_retention_days"`
	LogRetentionDays     int    `yaml:"log_retention_days" json:"log_retention_days"`
	CoverGeneration      bool   `yaml:"cover_generation" json:"cover_generation"`
}

type planFile struct {
	Plans []Plan `yaml:"plans"`
}

// Registry holds the subscription tiers loaded from the embedded YAML.
// Tiers are read-only at runtime; billing state lives with the payment
// provider, not here.
type Registry struct {
	plans map[string]*Plan
	order []string
	mu    sync.RWMutex
}

// NewRegistry creates a plan registry from the embedded configuration.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/plans.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read plans config: %w", err)
	}

	var file planFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plans config: %w", err)
	}

	if len(file.Plans) == 0 {
		return nil, fmt.Errorf("plans config defines no tiers")
	}

	r := &Registry{plans: make(map[string]*Plan)}
	for i := range file.Plans {
		p := &file.Plans[i]
		if p.ID == "" {
			return nil, fmt.Errorf("plan at index %d has no id", i)
		}
		if _, exists := r.plans[p.ID]; exists {
			return nil, fmt.Errorf("duplicate plan id %q", p.ID)
		}
		r.plans[p.ID] = p
		r.order = append(r.order, p.ID)
	}

	return r, nil
}

// Get returns the plan for a tier id.
func (r *Registry) Get(id string) (*Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, ok := r.plans[id]
	if !ok {
		return nil, fmt.Errorf("unknown plan tier: %s", id)
	}
	return plan, nil
}

// List returns all plans in the order they are defined in the YAML.
func (r *Registry) List() []Plan {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Plan, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.plans[id])
	}
	return out
}
