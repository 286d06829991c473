package git

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// ErrNoTags is returned when the repository has no tag reachable from HEAD.
var ErrNoTags = fmt.Errorf("no tags found in repository")

// ResolveTag resolves a tag name to the commit hash it points at,
// peeling annotated tags.
func (r *Repository) ResolveTag(name string) (string, error) {
	ref, err := r.repo.Reference(plumbing.NewTagReferenceName(name), true)
	if err != nil {
		return "", fmt.Errorf("resolving tag %s: %w", name, err)
	}
	return r.peelTag(ref.Hash()).String(), nil
}

// NearestTag finds the release boundary when no explicit tag or commit
// is given: the first tagged commit reached by walking back from HEAD.
// When several tags point at that commit, the highest semantic version
// wins; tags that do not parse as versions rank below ones that do and
// compare lexicographically among themselves.
func (r *Repository) NearestTag() (name, hash string, err error) {
	tagsByCommit, err := r.tagsByCommit()
	if err != nil {
		return "", "", err
	}
	if len(tagsByCommit) == 0 {
		return "", "", ErrNoTags
	}

	head, err := r.repo.Head()
	if err != nil {
		return "", "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := r.repo.Log(&gogit.LogOptions{
		From:  head.Hash(),
		Order: gogit.LogOrderCommitterTime,
	})
	if err != nil {
		return "", "", fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		tags, ok := tagsByCommit[c.Hash]
		if !ok {
			return nil
		}
		name = bestTag(tags)
		hash = c.Hash.String()
		return storer.ErrStop
	})
	if err != nil {
		return "", "", fmt.Errorf("walking history: %w", err)
	}
	if name == "" {
		return "", "", ErrNoTags
	}

	r.log.Debugw("nearest tag resolved", "tag", name, "commit", hash)
	return name, hash, nil
}

// tagsByCommit maps each tagged commit to the tag names pointing at it,
// peeling annotated tags to their target commits.
func (r *Repository) tagsByCommit() (map[plumbing.Hash][]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	tags := make(map[plumbing.Hash][]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target := r.peelTag(ref.Hash())
		tags[target] = append(tags[target], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tags, nil
}

// peelTag resolves an annotated tag object to the commit it references.
// Lightweight tags already point at the commit.
func (r *Repository) peelTag(hash plumbing.Hash) plumbing.Hash {
	tagObj, err := r.repo.TagObject(hash)
	if err != nil {
		return hash
	}
	return tagObj.Target
}

// bestTag picks the winning tag among several pointing at one commit.
func bestTag(tags []string) string {
	best := tags[0]
	bestVersion, bestErr := semver.NewVersion(best)
	for _, tag := range tags[1:] {
		version, err := semver.NewVersion(tag)
		switch {
		case err == nil && bestErr == nil:
			if version.GreaterThan(bestVersion) {
				best, bestVersion = tag, version
			}
		case err == nil && bestErr != nil:
			best, bestVersion, bestErr = tag, version, nil
		case err != nil && bestErr != nil:
			if tag > best {
				best = tag
			}
		}
	}
	return best
}
