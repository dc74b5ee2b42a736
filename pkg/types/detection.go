package types

// ConditionKind identifies what host fact a detection condition tests.
type ConditionKind string

const (
	// ConditionHostname matches when the machine hostname equals Value.
	ConditionHostname ConditionKind = "hostname"

	// ConditionOS matches when the OS family (runtime.GOOS) equals Value.
	ConditionOS ConditionKind = "os"

	// ConditionEnvVar matches when the environment variable Name is set
	// to exactly Value.
	ConditionEnvVar ConditionKind = "env"
)

// Condition is a single predicate over host facts. Each kind is a
// tagged variant evaluated by one match; there is no dynamic dispatch.
type Condition struct {
	Kind  ConditionKind
	Name  string // only used by ConditionEnvVar
	Value string
}

// DetectionRule names a profile and the conditions under which it is
// selected. A rule matches only when all of its conditions hold.
type DetectionRule struct {
	Profile    string
	Conditions []Condition
}

// HostFacts is a snapshot of the environment detection rules are
// evaluated against. Evaluation is a pure function of these facts,
// so identical facts always select the identical profile.
type HostFacts struct {
	Hostname string
	OS       string
	Env      map[string]string
}
