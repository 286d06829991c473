package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ariel-frischer/relnotes/internal/git"
)

func TestMergeHint(t *testing.T) {
	tests := map[string]struct {
		commit git.Commit
		want   int
	}{
		"merge commit with pr number": {
			commit: git.Commit{Subject: "Merge pull request #123 from octo/dep", Parents: 2},
			want:   123,
		},
		"single parent is no merge": {
			commit: git.Commit{Subject: "Merge pull request #123 from octo/dep", Parents: 1},
			want:   0,
		},
		"merge without pr reference": {
			commit: git.Commit{Subject: "Merge branch 'main' into dev", Parents: 2},
			want:   0,
		},
		"reference not at start": {
			commit: git.Commit{Subject: "Revert Merge pull request #123", Parents: 2},
			want:   0,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, mergeHint(tc.commit))
		})
	}
}
