package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/telemedpro/telemed/backend/internal/analysis/intent"
)

type result struct {
	Text string `json:"text"`
	intent.Match
}

func runClassify(ruleSet string, texts []string, out io.Writer, asJSON bool) error {
	responder, err := intent.NewNamed(ruleSet)
	if err != nil {
		return err
	}
	for _, text := range texts {
		if err := printMatch(out, result{Text: text, Match: responder.Classify(text)}, asJSON); err != nil {
			return err
		}
	}
	return nil
}

// runClassifyLines classifies every non-blank line of in.
func runClassifyLines(ruleSet string, in io.Reader, out io.Writer, asJSON bool) error {
	var texts []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return runClassify(ruleSet, texts, out, asJSON)
}

func printMatch(out io.Writer, r result, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(out).Encode(r)
	}
	_, err := fmt.Fprintf(out, "%-12s %q\n             -> %s\n", r.Rule, r.Text, r.Response)
	return err
}

func runRules(ruleSet string, out io.Writer) error {
	set, err := intent.LoadRuleSet(ruleSet)
	if err != nil {
		return err
	}
	for i, rule := range set.Rules {
		if _, err := fmt.Fprintf(out, "%2d. %-12s /%s/\n", i+1, rule.Name, rule.Pattern); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(out, "    %-12s %s\n", intent.FallbackRule, set.Fallback)
	return err
}
