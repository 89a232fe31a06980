// Package intent classifies free-text chat messages against an ordered
// table of keyword rules and returns the scripted reply of the first match.
//
// Matching is case-insensitive and pattern based over the raw text, so a
// keyword nested inside a longer word still matches.
package intent

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Built-in rule set names.
const (
	Clinic = "clinic"
	Triage = "triage"

	// FallbackRule is reported by Classify when no rule matched.
	FallbackRule = "fallback"
)

var ErrUnknownRuleSet = errors.New("unknown rule set")

//go:embed rules.yaml
var rulesFile []byte

// Rule pairs a compiled pattern with its scripted response.
type Rule struct {
	Name     string `yaml:"name" json:"name"`
	Pattern  string `yaml:"pattern" json:"pattern"`
	Response string `yaml:"response" json:"response"`

	re *regexp.Regexp
}

// Matches reports whether the rule's pattern occurs anywhere in text.
func (r Rule) Matches(text string) bool {
	return r.re != nil && r.re.MatchString(text)
}

// RuleSet is an ordered rule list plus the reply used when nothing matches.
type RuleSet struct {
	Name     string
	Rules    []Rule
	Fallback string
}

// Match 是一次分类的结果。
type Match struct {
	Rule     string `json:"rule"`
	Response string `json:"response"`
	Matched  bool   `json:"matched"`
}

type catalog struct {
	Fallback   string              `yaml:"fallback"`
	Attachment string              `yaml:"attachment"`
	Rules      []Rule              `yaml:"rules"`
	RuleSets   map[string][]string `yaml:"rulesets"`
}

var loadCatalog = sync.OnceValues(func() (*catalog, error) {
	return parseCatalog(rulesFile)
})

func parseCatalog(data []byte) (*catalog, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if c.Fallback == "" {
		return nil, errors.New("rules: fallback response is required")
	}

	for i := range c.Rules {
		rule := &c.Rules[i]
		if rule.Name == "" || rule.Pattern == "" {
			return nil, fmt.Errorf("rules: entry %d needs a name and a pattern", i)
		}
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rules: compile %s: %w", rule.Name, err)
		}
		rule.re = re
	}
	return &c, nil
}

func (c *catalog) ruleSet(name string) (RuleSet, error) {
	names, ok := c.RuleSets[name]
	if !ok {
		return RuleSet{}, fmt.Errorf("%w: %q", ErrUnknownRuleSet, name)
	}

	byName := make(map[string]Rule, len(c.Rules))
	for _, rule := range c.Rules {
		byName[rule.Name] = rule
	}

	rules := make([]Rule, 0, len(names))
	for _, n := range names {
		rule, ok := byName[n]
		if !ok {
			return RuleSet{}, fmt.Errorf("rules: set %s references undefined rule %s", name, n)
		}
		rules = append(rules, rule)
	}
	return RuleSet{Name: name, Rules: rules, Fallback: c.Fallback}, nil
}

// LoadRuleSet returns one of the built-in rule sets.
func LoadRuleSet(name string) (RuleSet, error) {
	c, err := loadCatalog()
	if err != nil {
		return RuleSet{}, err
	}
	return c.ruleSet(name)
}

// RuleSetNames lists the built-in rule sets in lexical order.
func RuleSetNames() []string {
	c, err := loadCatalog()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(c.RuleSets))
	for name := range c.RuleSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AttachmentReply is the acknowledgement sent for messages that carry only an attachment.
func AttachmentReply() string {
	c, err := loadCatalog()
	if err != nil {
		return ""
	}
	return c.Attachment
}

// Responder evaluates a RuleSet. It holds no per-call state and is safe for concurrent use.
type Responder struct {
	set RuleSet
}

// New 基于给定规则集创建 Responder。
func New(set RuleSet) *Responder {
	return &Responder{set: set}
}

// NewNamed is shorthand for LoadRuleSet followed by New.
func NewNamed(name string) (*Responder, error) {
	set, err := LoadRuleSet(name)
	if err != nil {
		return nil, err
	}
	return New(set), nil
}

// RuleSet returns the rules this responder evaluates.
func (r *Responder) RuleSet() RuleSet {
	return r.set
}

// Classify returns the first rule matching text, or the fallback.
func (r *Responder) Classify(text string) Match {
	for _, rule := range r.set.Rules {
		if rule.Matches(text) {
			return Match{Rule: rule.Name, Response: rule.Response, Matched: true}
		}
	}
	return Match{Rule: FallbackRule, Response: r.set.Fallback}
}

// Respond returns the scripted reply for text.
func (r *Responder) Respond(text string) string {
	return r.Classify(text).Response
}
