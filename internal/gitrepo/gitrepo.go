// Package gitrepo commits generated decision files into the enclosing
// git repository.
package gitrepo

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var ErrNotRepo = errors.New("not inside a git repository")

const (
	defaultAuthorName  = "dtrail"
	defaultAuthorEmail = "dtrail@localhost"
)

func open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ErrNotRepo
	}
	return repo, err
}

// IsRepo reports whether path is inside a git work tree.
func IsRepo(path string) bool {
	_, err := open(path)
	return err == nil
}

// AddAndCommit stages paths and commits them with msg, returning the short
// hash. All paths must live in the same repository as the first one.
func AddAndCommit(paths []string, msg string) (string, error) {
	if len(paths) == 0 {
		return "", errors.New("nothing to commit")
	}
	repo, err := open(filepath.Dir(paths[0]))
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("get worktree: %w", err)
	}

	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		return "", err
	}
	for _, p := range paths {
		rel, err := relTo(root, p)
		if err != nil {
			return "", err
		}
		if _, err := wt.Add(filepath.ToSlash(rel)); err != nil {
			return "", fmt.Errorf("add %s: %w", rel, err)
		}
	}

	hash, err := wt.Commit(msg, &git.CommitOptions{Author: author(repo)})
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return hash.String()[:7], nil
}

func relTo(root, p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("%s is outside %s: %w", p, root, err)
	}
	return rel, nil
}

// author uses user.name/user.email from git config, falling back to a
// fixed identity so commits never fail for lack of one.
func author(repo *git.Repository) *object.Signature {
	sig := &object.Signature{Name: defaultAuthorName, Email: defaultAuthorEmail, When: time.Now()}
	cfg, err := repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return sig
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		sig.Email = cfg.User.Email
	}
	return sig
}
