package changelog

// Commit is an immutable snapshot of one commit's metadata, supplied by
// the history source. Subject is the first line of the message, Body the
// remainder (without the subject), Author the author name as recorded in
// the commit.
type Commit struct {
	Hash    string
	Subject string
	Body    string
	Author  string
}

// OutcomeKind discriminates the classification variants.
type OutcomeKind int

const (
	// OutcomeSkip means the commit produces no release notes output.
	OutcomeSkip OutcomeKind = iota
	// OutcomeDependencyUpdate means the commit contributes one or more
	// dependency update lines.
	OutcomeDependencyUpdate
	// OutcomeGenericChange means the commit contributes a single
	// formatted line to the other-changes section.
	OutcomeGenericChange
)

// String returns a human-readable name for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSkip:
		return "skip"
	case OutcomeDependencyUpdate:
		return "dependency-update"
	case OutcomeGenericChange:
		return "generic-change"
	default:
		return "unknown"
	}
}

// Outcome is the classification result for a single commit. Exactly one
// variant applies: UpdateLines is set only for OutcomeDependencyUpdate,
// ChangeLine only for OutcomeGenericChange.
type Outcome struct {
	Kind OutcomeKind
	// UpdateLines holds the raw dependency update lines, in body order.
	UpdateLines []string
	// ChangeLine holds the formatted "- subject (author)" line.
	ChangeLine string
}

func skipOutcome() Outcome {
	return Outcome{Kind: OutcomeSkip}
}

func dependencyOutcome(lines []string) Outcome {
	return Outcome{Kind: OutcomeDependencyUpdate, UpdateLines: lines}
}

func genericOutcome(line string) Outcome {
	return Outcome{Kind: OutcomeGenericChange, ChangeLine: line}
}

// ParsedUpdate is one structured "package upgraded from X to Y" fact
// extracted from an update line. Version tokens are opaque strings; the
// engine never interprets them beyond exact equality, except for the
// leading dot-separated component used in major version detection.
// PRNumber is zero when the line carries no pull request reference.
type ParsedUpdate struct {
	Package  string
	From     string
	To       string
	PRNumber int
}
