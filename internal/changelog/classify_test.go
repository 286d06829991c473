package changelog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLookup is a scriptable PRLookup for classifier tests.
type fakeLookup struct {
	searchNumber int
	searchFound  bool
	searchErr    error
	searchCalls  int

	body      string
	bodyFound bool
	bodyErr   error
	bodyCalls int
}

func (f *fakeLookup) SearchPRBySHA(_ context.Context, _, _, _ string) (int, bool, error) {
	f.searchCalls++
	return f.searchNumber, f.searchFound, f.searchErr
}

func (f *fakeLookup) PullRequestBody(_ context.Context, _, _ string, _ int) (string, bool, error) {
	f.bodyCalls++
	return f.body, f.bodyFound, f.bodyErr
}

func TestClassify_SkipsSnapshotVersionCommits(t *testing.T) {
	tests := map[string]string{
		"exact":      "Setting new snapshot version 1.0",
		"lower case": "setting new snapshot version 2.3.4-SNAPSHOT",
		"embedded":   "chore: Setting new snapshot version after release",
		"mixed case": "SETTING NEW SNAPSHOT VERSION",
	}

	for name, subject := range tests {
		t.Run(name, func(t *testing.T) {
			outcome := Classify(context.Background(), Commit{
				Subject: subject,
				Author:  "dependabot[bot]",
			}, 0, Options{}, nil)
			assert.Equal(t, OutcomeSkip, outcome.Kind)
		})
	}
}

func TestClassify_GenericChange(t *testing.T) {
	commit := Commit{Subject: "Fix bug (#123)", Author: "User"}

	t.Run("without pr numbers strips suffix", func(t *testing.T) {
		outcome := Classify(context.Background(), commit, 0, Options{}, nil)
		require.Equal(t, OutcomeGenericChange, outcome.Kind)
		assert.Equal(t, "- Fix bug (User)", outcome.ChangeLine)
	})

	t.Run("with pr numbers keeps existing token", func(t *testing.T) {
		outcome := Classify(context.Background(), commit, 0, Options{IncludePRNumbers: true}, nil)
		require.Equal(t, OutcomeGenericChange, outcome.Kind)
		assert.Equal(t, "- Fix bug (#123) (User)", outcome.ChangeLine)
	})

	t.Run("with pr numbers appends resolved hint", func(t *testing.T) {
		outcome := Classify(context.Background(), Commit{Subject: "Fix bug", Author: "User"}, 77,
			Options{IncludePRNumbers: true}, nil)
		require.Equal(t, OutcomeGenericChange, outcome.Kind)
		assert.Equal(t, "- Fix bug (#77) (User)", outcome.ChangeLine)
	})
}

func TestClassify_DependabotBodyLines(t *testing.T) {
	commit := Commit{
		Subject: "Bump the go-deps group with 2 updates (#55) (main)",
		Body: "Bumps the go-deps group with 2 updates:\n" +
			"Updates `github.com/spf13/cobra` from 1.8.0 to 1.9.1\n" +
			"updates `golang.org/x/net` from 0.17.0 to 0.23.0\n" +
			"some unrelated trailer line\n",
		Author: "dependabot[bot]",
	}

	t.Run("without pr numbers", func(t *testing.T) {
		outcome := Classify(context.Background(), commit, 0, Options{}, nil)
		require.Equal(t, OutcomeDependencyUpdate, outcome.Kind)
		assert.Equal(t, []string{
			"- Updates `github.com/spf13/cobra` from 1.8.0 to 1.9.1",
			"- updates `golang.org/x/net` from 0.17.0 to 0.23.0",
		}, outcome.UpdateLines)
	})

	t.Run("with pr numbers appends resolved number", func(t *testing.T) {
		outcome := Classify(context.Background(), commit, 0, Options{IncludePRNumbers: true}, nil)
		require.Equal(t, OutcomeDependencyUpdate, outcome.Kind)
		assert.Equal(t, []string{
			"- Updates `github.com/spf13/cobra` from 1.8.0 to 1.9.1 (#55)",
			"- updates `golang.org/x/net` from 0.17.0 to 0.23.0 (#55)",
		}, outcome.UpdateLines)
	})

	t.Run("does not duplicate a pr token already in the line", func(t *testing.T) {
		withRef := commit
		withRef.Body = "Updates `lib` from 1.0 to 1.1 (#55)\n"
		outcome := Classify(context.Background(), withRef, 0, Options{IncludePRNumbers: true}, nil)
		require.Equal(t, OutcomeDependencyUpdate, outcome.Kind)
		assert.Equal(t, []string{"- Updates `lib` from 1.0 to 1.1 (#55)"}, outcome.UpdateLines)
	})
}

func TestClassify_BodyTakesPrecedenceOverLookup(t *testing.T) {
	lookup := &fakeLookup{body: "Updates `other` from 9.0 to 9.1", bodyFound: true}
	commit := Commit{
		Subject: "Bump lib from 1.0 to 1.1 (#55)",
		Body:    "Updates `lib` from 1.0 to 1.1",
		Author:  "dependabot[bot]",
	}

	outcome := Classify(context.Background(), commit, 0, Options{Owner: "octo", Repo: "repo"}, lookup)
	require.Equal(t, OutcomeDependencyUpdate, outcome.Kind)
	assert.Equal(t, []string{"- Updates `lib` from 1.0 to 1.1"}, outcome.UpdateLines)
	assert.Zero(t, lookup.bodyCalls, "body lines must prevent the network fetch")
}

func TestClassify_PRBodyFetchSkipsTableNoise(t *testing.T) {
	lookup := &fakeLookup{
		body: "Bumps the pip group with 2 updates:\n" +
			"| Package | From | To |\n" +
			"|---|---|---|\n" +
			"Updates `requests` from 2.31.0 to 2.32.0\n" +
			"Updates `flask` from 3.0.0 to 3.1.0\n",
		bodyFound: true,
	}
	commit := Commit{
		Subject: "Merge pull request #88 from dependabot/pip-group",
		Author:  "dependabot[bot]",
	}

	outcome := Classify(context.Background(), commit, 0,
		Options{IncludePRNumbers: true, Owner: "octo", Repo: "repo"}, lookup)

	require.Equal(t, OutcomeDependencyUpdate, outcome.Kind)
	assert.Equal(t, []string{
		"- Updates `requests` from 2.31.0 to 2.32.0 (#88)",
		"- Updates `flask` from 3.0.0 to 3.1.0 (#88)",
	}, outcome.UpdateLines)
	assert.Equal(t, 1, lookup.bodyCalls)
}

func TestClassify_DependabotFallsBackToSubject(t *testing.T) {
	lookup := &fakeLookup{bodyErr: errors.New("boom")}
	commit := Commit{
		Subject: "Bump lib from 1.0 to 1.1 (#55)",
		Author:  "dependabot[bot]",
	}

	outcome := Classify(context.Background(), commit, 0, Options{Owner: "octo", Repo: "repo"}, lookup)
	require.Equal(t, OutcomeDependencyUpdate, outcome.Kind)
	assert.Equal(t, []string{"- Bump lib from 1.0 to 1.1"}, outcome.UpdateLines)
}

func TestResolvePRNumber_Cascade(t *testing.T) {
	tests := map[string]struct {
		commit Commit
		hint   int
		lookup *fakeLookup
		want   int
	}{
		"hint wins over everything": {
			commit: Commit{Subject: "Merge pull request #10 from branch"},
			hint:   5,
			want:   5,
		},
		"merge subject": {
			commit: Commit{Subject: "Merge pull request #10 from octo/dep"},
			want:   10,
		},
		"grouped bump subject": {
			commit: Commit{Subject: "Bump the npm group across 1 directory with 3 updates (#21) (main)"},
			want:   21,
		},
		"plain reference anywhere": {
			commit: Commit{Subject: "Fix flaky retry (#33)"},
			want:   33,
		},
		"sha search": {
			commit: Commit{Subject: "Refactor executor", Hash: "abc123"},
			lookup: &fakeLookup{searchNumber: 44, searchFound: true},
			want:   44,
		},
		"sha search failure is swallowed": {
			commit: Commit{Subject: "Refactor executor", Hash: "abc123"},
			lookup: &fakeLookup{searchErr: errors.New("rate limited")},
			want:   0,
		},
		"no sources": {
			commit: Commit{Subject: "Refactor executor"},
			want:   0,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var lookup PRLookup
			if tc.lookup != nil {
				lookup = tc.lookup
			}
			got := resolvePRNumber(context.Background(), tc.commit, tc.hint,
				Options{Owner: "octo", Repo: "repo"}, lookup)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolvePRNumber_SearchNeedsOwnerAndRepo(t *testing.T) {
	lookup := &fakeLookup{searchNumber: 44, searchFound: true}
	got := resolvePRNumber(context.Background(), Commit{Subject: "x", Hash: "abc"}, 0, Options{}, lookup)
	assert.Zero(t, got)
	assert.Zero(t, lookup.searchCalls)
}

func TestClassify_FailingLookupMatchesNilLookup(t *testing.T) {
	commit := Commit{Subject: "Refactor executor (#91)", Author: "User"}
	opts := Options{IncludePRNumbers: true, Owner: "octo", Repo: "repo"}

	withNil := Classify(context.Background(), commit, 0, opts, nil)
	withBroken := Classify(context.Background(), commit, 0, opts,
		&fakeLookup{searchErr: errors.New("down"), bodyErr: errors.New("down")})

	assert.Equal(t, withNil, withBroken)
}
