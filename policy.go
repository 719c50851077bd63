package tfs

import (
	"strings"

	"github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"
)

// PolicyFailure is one checkin policy complaint.
type PolicyFailure struct {
	// Policy names the policy that failed.
	Policy string

	// Message explains what is wrong with the session.
	Message string
}

// CheckinPolicy inspects a checkin session before commit. Failures block
// the workspace's checkin unless the session carries a PolicyOverride.
type CheckinPolicy interface {
	// Name identifies the policy in failures and override records.
	Name() string

	// Evaluate returns zero or more failures for the session.
	Evaluate(session *CheckinSession, changes []PendingChange) []PolicyFailure
}

// CommitMessagePolicy requires checkin comments to be well-formed
// conventional commit messages.
type CommitMessagePolicy struct {
	machine conventionalcommits.Machine
}

// NewCommitMessagePolicy creates a CommitMessagePolicy accepting the
// conventional commit type set.
func NewCommitMessagePolicy() *CommitMessagePolicy {
	return &CommitMessagePolicy{
		machine: parser.NewMachine(conventionalcommits.WithTypes(conventionalcommits.TypesConventional)),
	}
}

// Name implements CheckinPolicy.
func (p *CommitMessagePolicy) Name() string {
	return "commit-message"
}

// Evaluate implements CheckinPolicy.
func (p *CommitMessagePolicy) Evaluate(session *CheckinSession, _ []PendingChange) []PolicyFailure {
	comment := strings.TrimSpace(session.Comment)
	if comment == "" {
		return []PolicyFailure{{Policy: p.Name(), Message: "checkin comment is empty"}}
	}

	if _, err := p.machine.Parse([]byte(comment)); err != nil {
		return []PolicyFailure{{Policy: p.Name(), Message: "comment is not a conventional commit: " + err.Error()}}
	}
	return nil
}

// NotesPolicy requires a value for each named checkin note.
type NotesPolicy struct {
	// Required lists note names that must be present and non-empty.
	Required []string
}

// Name implements CheckinPolicy.
func (p *NotesPolicy) Name() string {
	return "checkin-notes"
}

// Evaluate implements CheckinPolicy.
func (p *NotesPolicy) Evaluate(session *CheckinSession, _ []PendingChange) []PolicyFailure {
	values := make(map[string]string, len(session.Notes))
	for _, n := range session.Notes {
		values[n.Name] = n.Value
	}

	var failures []PolicyFailure
	for _, name := range p.Required {
		if strings.TrimSpace(values[name]) == "" {
			failures = append(failures, PolicyFailure{
				Policy:  p.Name(),
				Message: "checkin note " + name + " is required",
			})
		}
	}
	return failures
}
