// Package profiles selects the active profile by evaluating detection
// rules against host facts. Rule evaluation is a pure function of its
// inputs: identical facts always select the identical profile.
package profiles

import (
	"os"
	"runtime"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// Select evaluates rules in declaration order and returns the profile
// of the first rule whose conditions all hold. When no rule matches,
// the default profile is returned; with no default either, selection
// fails with NO_PROFILE_RESOLVED. That is a configuration error, not a
// runtime fault.
func Select(rules []types.DetectionRule, defaultProfile string, facts types.HostFacts) (string, error) {
	for _, rule := range rules {
		if matches(rule, facts) {
			return rule.Profile, nil
		}
	}
	if defaultProfile != "" {
		return defaultProfile, nil
	}
	return "", errors.New(errors.ErrNoProfile, "no detection rule matched and no default profile is configured")
}

func matches(rule types.DetectionRule, facts types.HostFacts) bool {
	for _, cond := range rule.Conditions {
		if !holds(cond, facts) {
			return false
		}
	}
	return true
}

func holds(cond types.Condition, facts types.HostFacts) bool {
	switch cond.Kind {
	case types.ConditionHostname:
		return facts.Hostname == cond.Value
	case types.ConditionOS:
		return facts.OS == cond.Value
	case types.ConditionEnvVar:
		v, ok := facts.Env[cond.Name]
		return ok && v == cond.Value
	default:
		return false
	}
}

// CurrentFacts snapshots the running environment once per pass.
func CurrentFacts() types.HostFacts {
	hostname, _ := os.Hostname()
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return types.HostFacts{
		Hostname: hostname,
		OS:       runtime.GOOS,
		Env:      env,
	}
}
