package integration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotUntracked is returned when a file passed to RemoveUntracked is not
// in the untracked (or ignored) set.
var ErrNotUntracked = errors.New("file is not untracked")

// Status lists repository paths, relative to the worktree root, by state.
// A path can be both staged and unstaged.
type Status struct {
	Staged    []string
	Unstaged  []string
	Untracked []string
	Ignored   []string
}

// Clean reports whether the worktree has no staged, unstaged or untracked paths.
func (s *Status) Clean() bool {
	return len(s.Staged) == 0 && len(s.Unstaged) == 0 && len(s.Untracked) == 0
}

// CommitOptions holds the parameters for Repository.Commit.
type CommitOptions struct {
	Message string
	// Files to stage before committing. Empty stages every change,
	// including untracked files.
	Files []string
	Amend bool
}

// RemoveOptions holds the parameters for Repository.RemoveUntracked.
type RemoveOptions struct {
	Files          []string
	All            bool
	IncludeIgnored bool
}

// Signature identifies the commit author.
type Signature struct {
	Name  string
	Email string
}

// Repository is the set of version-control operations the CLI needs.
type Repository interface {
	Root() string
	Status(includeIgnored bool) (*Status, error)
	Commit(opts CommitOptions) (string, error)
	RemoveUntracked(opts RemoveOptions) ([]string, error)
	Discard(files []string) ([]string, error)
}

// RepositoryOpener locates a repository from a path inside it.
type RepositoryOpener interface {
	Discover(path string) (Repository, error)
}

// gitRepositoryOpener opens repositories with go-git.
type gitRepositoryOpener struct {
	author *Signature
}

// NewRepositoryOpener creates a RepositoryOpener. When author is nil, commits
// take their author from git configuration.
func NewRepositoryOpener(author *Signature) RepositoryOpener {
	return &gitRepositoryOpener{author: author}
}

// Discover walks up from path until it finds a .git directory.
func (o *gitRepositoryOpener) Discover(path string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("no git repository found at or above %s", path)
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	return &gitRepository{repo: repo, wt: wt, author: o.author}, nil
}

// gitRepository implements Repository on top of go-git.
type gitRepository struct {
	repo   *git.Repository
	wt     *git.Worktree
	author *Signature
}

func (r *gitRepository) Root() string {
	return r.wt.Filesystem.Root()
}

// Status returns the sorted staged, unstaged and untracked paths. Ignored
// paths are only collected when includeIgnored is set since it requires a
// walk of the whole worktree.
func (r *gitRepository) Status(includeIgnored bool) (*Status, error) {
	st, err := r.wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	out := &Status{}
	for path, fileStatus := range st {
		switch {
		case fileStatus.Worktree == git.Untracked:
			out.Untracked = append(out.Untracked, path)
			continue
		case fileStatus.Staging != git.Unmodified && fileStatus.Staging != git.Untracked:
			out.Staged = append(out.Staged, path)
		}
		if fileStatus.Worktree != git.Unmodified {
			out.Unstaged = append(out.Unstaged, path)
		}
	}

	if includeIgnored {
		ignored, err := r.ignoredFiles()
		if err != nil {
			return nil, err
		}
		out.Ignored = ignored
	}

	sort.Strings(out.Staged)
	sort.Strings(out.Unstaged)
	sort.Strings(out.Untracked)
	sort.Strings(out.Ignored)
	return out, nil
}

// ignoredFiles walks the worktree and returns every file matched by the
// repository's ignore rules. Ignored directories are reported by their
// contained files.
func (r *gitRepository) ignoredFiles() ([]string, error) {
	patterns, err := gitignore.ReadPatterns(r.wt.Filesystem, nil)
	if err != nil {
		return nil, fmt.Errorf("reading ignore patterns: %w", err)
	}
	patterns = append(patterns, r.wt.Excludes...)
	matcher := gitignore.NewMatcher(patterns)

	root := r.Root()
	var ignored []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() && d.Name() == git.GitDirName {
			return filepath.SkipDir
		}
		if d.IsDir() {
			return nil
		}
		if matcher.Match(strings.Split(filepath.ToSlash(rel), "/"), false) {
			ignored = append(ignored, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking worktree: %w", err)
	}
	return ignored, nil
}

// Commit stages the requested files and records a commit, or rewrites HEAD
// when opts.Amend is set. It returns the new commit hash.
func (r *gitRepository) Commit(opts CommitOptions) (string, error) {
	if strings.TrimSpace(opts.Message) == "" {
		return "", fmt.Errorf("commit message must not be empty")
	}

	st, err := r.wt.Status()
	if err != nil {
		return "", fmt.Errorf("reading status: %w", err)
	}

	files := opts.Files
	if len(files) == 0 {
		for path, fileStatus := range st {
			if fileStatus.Worktree != git.Unmodified {
				files = append(files, path)
			}
		}
		sort.Strings(files)
	}

	for _, f := range files {
		path := filepath.ToSlash(f)
		if fileStatus, ok := st[path]; ok && fileStatus.Worktree == git.Deleted {
			if _, err := r.wt.Remove(path); err != nil {
				return "", fmt.Errorf("staging removal of %s: %w", path, err)
			}
			continue
		}
		if _, err := r.wt.Add(path); err != nil {
			return "", fmt.Errorf("staging %s: %w", path, err)
		}
	}

	commitOpts := &git.CommitOptions{Amend: opts.Amend}
	if r.author != nil {
		sig := &object.Signature{Name: r.author.Name, Email: r.author.Email, When: time.Now()}
		commitOpts.Author = sig
		commitOpts.Committer = sig
	}

	hash, err := r.wt.Commit(opts.Message, commitOpts)
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	return hash.String(), nil
}

// RemoveUntracked deletes untracked files, and ignored files when
// opts.IncludeIgnored is set. With opts.All every such file is removed;
// otherwise only opts.Files, each of which must be in the removable set.
// Nothing is deleted if any requested file is not removable.
func (r *gitRepository) RemoveUntracked(opts RemoveOptions) ([]string, error) {
	if !opts.All && len(opts.Files) == 0 {
		return nil, fmt.Errorf("no files given (use --all to remove every untracked file)")
	}

	st, err := r.Status(opts.IncludeIgnored)
	if err != nil {
		return nil, err
	}

	removable := make(map[string]bool, len(st.Untracked)+len(st.Ignored))
	for _, p := range st.Untracked {
		removable[p] = true
	}
	for _, p := range st.Ignored {
		removable[p] = true
	}

	var targets []string
	if opts.All {
		for p := range removable {
			targets = append(targets, p)
		}
	} else {
		var rejected []string
		for _, f := range opts.Files {
			p := filepath.ToSlash(filepath.Clean(f))
			if !removable[p] {
				rejected = append(rejected, f)
				continue
			}
			targets = append(targets, p)
		}
		if len(rejected) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotUntracked, strings.Join(rejected, ", "))
		}
	}
	sort.Strings(targets)

	root := r.Root()
	removed := make([]string, 0, len(targets))
	for _, p := range targets {
		if err := os.Remove(filepath.Join(root, filepath.FromSlash(p))); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("removing %s: %w", p, err)
		}
		removed = append(removed, p)
	}
	return removed, nil
}

// Discard restores files in both the index and the worktree to their HEAD
// contents. An empty list discards every change to files in HEAD; files
// staged as new have no HEAD contents and are left alone.
func (r *gitRepository) Discard(files []string) ([]string, error) {
	targets := make([]string, 0, len(files))
	for _, f := range files {
		targets = append(targets, filepath.ToSlash(filepath.Clean(f)))
	}

	if len(targets) == 0 {
		st, err := r.wt.Status()
		if err != nil {
			return nil, fmt.Errorf("reading status: %w", err)
		}
		for path, fileStatus := range st {
			switch {
			case fileStatus.Worktree == git.Untracked, fileStatus.Staging == git.Added:
				continue
			case fileStatus.Staging != git.Unmodified, fileStatus.Worktree != git.Unmodified:
				targets = append(targets, path)
			}
		}
		sort.Strings(targets)
	}
	if len(targets) == 0 {
		return nil, nil
	}

	err := r.wt.Restore(&git.RestoreOptions{
		Staged:   true,
		Worktree: true,
		Files:    targets,
	})
	if err != nil {
		return nil, fmt.Errorf("restoring files: %w", err)
	}
	return targets, nil
}
