package git

import (
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// CommitsSince walks the history from HEAD, newest first, and returns
// every commit up to but excluding stopHash. The returned order is the
// walk order; consolidation depends on it staying untouched.
func (r *Repository) CommitsSince(stopHash string) ([]Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := r.repo.Log(&gogit.LogOptions{
		From:  head.Hash(),
		Order: gogit.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	stop := plumbing.NewHash(stopHash)
	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if c.Hash == stop {
			return storer.ErrStop
		}
		subject, body := splitMessage(c.Message)
		commits = append(commits, Commit{
			Hash:    c.Hash.String(),
			Subject: subject,
			Body:    body,
			Author:  c.Author.Name,
			Parents: c.NumParents(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}

	r.log.Debugw("commit walk finished", "commits", len(commits), "stop", stopHash)
	return commits, nil
}

// RawLine renders a commit the way the -x listing prints it.
func (c Commit) RawLine() string {
	return fmt.Sprintf("%s %s (%s)", c.Hash, strings.TrimSpace(c.Subject), c.Author)
}
