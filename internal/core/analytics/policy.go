package analytics

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Policy carries the thresholds used to derive signals for one tenant.
type Policy struct {
	VelocityThreshold float64
	RecencyWindow     time.Duration
	LookbackDays      int
}

// DefaultPolicy returns the built-in thresholds.
func DefaultPolicy() Policy {
	return Policy{
		VelocityThreshold: VelocityThreshold,
		RecencyWindow:     RecencyWindow,
		LookbackDays:      DefaultLookbackDays,
	}
}

// PolicySource resolves the policy that applies to a tenant.
type PolicySource interface {
	For(tenantID string) Policy
}

// StaticPolicy applies one policy to every tenant.
type StaticPolicy Policy

func (p StaticPolicy) For(string) Policy { return Policy(p) }

// TenantPolicy is one tenant's overrides plus its scheduling flag.
type TenantPolicy struct {
	TenantID  string
	Scheduled bool
	Policy    Policy
}

// rawTenantPolicy is the on-disk YAML shape. Unset fields inherit the default.
type rawTenantPolicy struct {
	TenantID          string   `yaml:"tenant_id"`
	Scheduled         *bool    `yaml:"scheduled"`
	VelocityThreshold *float64 `yaml:"velocity_threshold"`
	RecencyWindow     string   `yaml:"recency_window"`
	LookbackDays      *int     `yaml:"lookback_days"`
}

// PolicyRepository holds per-tenant policies loaded from *.yaml files, one
// tenant per file. Files are read once at startup.
type PolicyRepository struct {
	dir      string
	fallback Policy
	tenants  map[string]TenantPolicy
}

// NewFileSystemPolicyRepository eagerly loads all tenant policy files from
// dir. A missing directory yields an empty repository.
func NewFileSystemPolicyRepository(dir string, fallback Policy) (*PolicyRepository, error) {
	repo := &PolicyRepository{
		dir:      dir,
		fallback: fallback,
		tenants:  make(map[string]TenantPolicy),
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

// NewPolicyRepository builds a repository from already parsed policies.
func NewPolicyRepository(fallback Policy, tenants ...TenantPolicy) *PolicyRepository {
	repo := &PolicyRepository{
		fallback: fallback,
		tenants:  make(map[string]TenantPolicy, len(tenants)),
	}
	for _, t := range tenants {
		repo.tenants[t.TenantID] = t
	}
	return repo
}

func (r *PolicyRepository) load() error {
	if r.dir == "" {
		return nil
	}
	info, err := os.Stat(r.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("tenant policy dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("tenant policy path %q is not a directory", r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading tenant policy dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(r.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading tenant policy %s: %w", path, err)
		}

		var raw rawTenantPolicy
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing tenant policy %s: %w", path, err)
		}
		if raw.TenantID == "" {
			continue // comment-only file
		}
		if _, exists := r.tenants[raw.TenantID]; exists {
			return fmt.Errorf("tenant %q: duplicate policy (check multiple YAML files)", raw.TenantID)
		}

		tp, err := raw.resolve(r.fallback)
		if err != nil {
			return fmt.Errorf("tenant policy %s: %w", path, err)
		}
		r.tenants[raw.TenantID] = tp
	}
	return nil
}

func (raw rawTenantPolicy) resolve(fallback Policy) (TenantPolicy, error) {
	tp := TenantPolicy{
		TenantID:  raw.TenantID,
		Scheduled: true,
		Policy:    fallback,
	}
	if raw.Scheduled != nil {
		tp.Scheduled = *raw.Scheduled
	}
	if raw.VelocityThreshold != nil {
		if *raw.VelocityThreshold < 0 {
			return tp, fmt.Errorf("velocity_threshold must be >= 0")
		}
		tp.Policy.VelocityThreshold = *raw.VelocityThreshold
	}
	if raw.RecencyWindow != "" {
		d, err := ParseWindow(raw.RecencyWindow)
		if err != nil {
			return tp, fmt.Errorf("recency_window: %w", err)
		}
		tp.Policy.RecencyWindow = d
	}
	if raw.LookbackDays != nil {
		if *raw.LookbackDays <= 0 {
			return tp, fmt.Errorf("lookback_days must be > 0")
		}
		tp.Policy.LookbackDays = *raw.LookbackDays
	}
	return tp, nil
}

// For returns the tenant's policy, or the fallback when none is configured.
func (r *PolicyRepository) For(tenantID string) Policy {
	if tp, ok := r.tenants[tenantID]; ok {
		return tp.Policy
	}
	return r.fallback
}

// ScheduledTenants returns configured tenants with scheduling enabled, sorted.
func (r *PolicyRepository) ScheduledTenants() []string {
	var out []string
	for id, tp := range r.tenants {
		if tp.Scheduled {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of configured tenants.
func (r *PolicyRepository) Len() int {
	return len(r.tenants)
}

// Scheduled reports whether the periodic rollup covers tenantID. Tenants
// without a policy file are scheduled.
func (r *PolicyRepository) Scheduled(tenantID string) bool {
	if tp, ok := r.tenants[tenantID]; ok {
		return tp.Scheduled
	}
	return true
}
