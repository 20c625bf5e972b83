package spamcheck

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_policy.yaml
var defaultPolicyYAML []byte

// Thresholds are inclusive: a count greater than or equal to the threshold rejects.
type Thresholds struct {
	HourlyPerIP         int `yaml:"hourly_per_ip"`
	DailyPerIP          int `yaml:"daily_per_ip"`
	DistinctEmailsPerIP int `yaml:"distinct_emails_per_ip"`
	SimilarLocalPart    int `yaml:"similar_local_part"`
}

// Policy is the loaded configuration behind the classifiers and the admission gate.
type Policy struct {
	Thresholds           Thresholds `yaml:"thresholds"`
	DisposableDomains    []string   `yaml:"disposable_domains"`
	ShortDomainAllowlist []string   `yaml:"short_domain_allowlist"`
	UserAgentIndicators  []string   `yaml:"user_agent_indicators"`
}

func DefaultPolicy() (*Policy, error) {
	return ParsePolicy(defaultPolicyYAML)
}

func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("spamcheck: parse policy: %w", err)
	}

	p.normalize()
	return &p, nil
}

// LoadPolicy returns the default policy overlaid with the YAML file at path.
// An empty path returns the default policy.
func LoadPolicy(path string) (*Policy, error) {
	base, err := DefaultPolicy()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(path) == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spamcheck: read policy file %q: %w", path, err)
	}

	override, err := ParsePolicy(data)
	if err != nil {
		return nil, err
	}

	return base.Merge(override), nil
}

// Merge returns a copy of p where non-empty lists and positive thresholds from o win.
func (p *Policy) Merge(o *Policy) *Policy {
	merged := *p
	if o == nil {
		return &merged
	}

	if len(o.DisposableDomains) > 0 {
		merged.DisposableDomains = o.DisposableDomains
	}
	if len(o.ShortDomainAllowlist) > 0 {
		merged.ShortDomainAllowlist = o.ShortDomainAllowlist
	}
	if len(o.UserAgentIndicators) > 0 {
		merged.UserAgentIndicators = o.UserAgentIndicators
	}

	merged.Thresholds = mergeThresholds(p.Thresholds, o.Thresholds)
	return &merged
}

func mergeThresholds(base, o Thresholds) Thresholds {
	pick := func(b, v int) int {
		if v > 0 {
			return v
		}
		return b
	}

	return Thresholds{
		HourlyPerIP:         pick(base.HourlyPerIP, o.HourlyPerIP),
		DailyPerIP:          pick(base.DailyPerIP, o.DailyPerIP),
		DistinctEmailsPerIP: pick(base.DistinctEmailsPerIP, o.DistinctEmailsPerIP),
		SimilarLocalPart:    pick(base.SimilarLocalPart, o.SimilarLocalPart),
	}
}

func (p *Policy) Validate() error {
	t := p.Thresholds
	if t.HourlyPerIP <= 0 || t.DailyPerIP <= 0 || t.DistinctEmailsPerIP <= 0 || t.SimilarLocalPart <= 0 {
		return fmt.Errorf("spamcheck: all thresholds must be positive, got %+v", t)
	}
	if len(p.DisposableDomains) == 0 {
		return fmt.Errorf("spamcheck: disposable domain list is empty")
	}
	return nil
}

func (p *Policy) normalize() {
	p.DisposableDomains = normalizeList(p.DisposableDomains)
	p.ShortDomainAllowlist = normalizeList(p.ShortDomainAllowlist)
	p.UserAgentIndicators = normalizeList(p.UserAgentIndicators)
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))

	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
