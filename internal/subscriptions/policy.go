package subscriptions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Policy captures the publisher-level handling decisions that cannot be
// derived from the subscription export itself.
type Policy struct {
	// IgnorePublishers are publishers known to have no automated usage data,
	// either password-only access or no reports at all.
	IgnorePublishers []string `yaml:"ignore_publishers"`
	// SpecialCasePublishers have usage data that is processed separately.
	SpecialCasePublishers []string `yaml:"special_case_publishers"`
	// Overrides maps ISSN to title for subscriptions missing from the export,
	// e.g. renewals still awaiting fulfillment.
	Overrides map[string]string `yaml:"overrides"`

	ignored map[string]bool
	special map[string]bool
}

// NewPolicy builds a policy from in-memory lists
func NewPolicy(ignore, special []string, overrides map[string]string) *Policy {
	p := &Policy{
		IgnorePublishers:      ignore,
		SpecialCasePublishers: special,
		Overrides:             overrides,
	}
	p.index()
	return p
}

// LoadPolicy reads a policy YAML file. An empty path or a missing file yields
// an empty policy; runs without publisher exceptions are legitimate.
func LoadPolicy(path string) (*Policy, error) {
	p := &Policy{}
	if path == "" {
		p.index()
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			p.index()
			return p, nil
		}
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}

	p.index()
	return p, nil
}

// index builds the lookup sets from the YAML lists
func (p *Policy) index() {
	p.ignored = make(map[string]bool, len(p.IgnorePublishers))
	for _, pub := range p.IgnorePublishers {
		p.ignored[pub] = true
	}
	p.special = make(map[string]bool, len(p.SpecialCasePublishers))
	for _, pub := range p.SpecialCasePublishers {
		p.special[pub] = true
	}
}

// IsIgnored reports whether the publisher is known to have no usage data
func (p *Policy) IsIgnored(publisher string) bool {
	return p.ignored[publisher]
}

// IsSpecialCase reports whether the publisher's usage is handled separately
func (p *Policy) IsSpecialCase(publisher string) bool {
	return p.special[publisher]
}
