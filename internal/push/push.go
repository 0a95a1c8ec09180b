// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package push uploads a local directory tree to a repository, one add node
// command per regular file.
package push

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/sling-transport/internal/log"
	"github.com/hashicorp-forge/sling-transport/internal/repository"
	istrings "github.com/hashicorp-forge/sling-transport/internal/strings"
	it "github.com/hashicorp-forge/sling-transport/internal/transport"
)

// Item is the outcome of pushing a single file.
type Item struct {
	FileInfo repository.FileInfo
	Err      *it.RepositoryError
}

// Succeeded returns whether the file was pushed.
func (i Item) Succeeded() bool {
	return i.Err == nil
}

// Report holds the outcome of every pushed file, in walk order.
type Report struct {
	Items   []Item
	Ignored []string
}

// Failed returns the items that could not be pushed.
func (r *Report) Failed() []Item {
	failed := []Item{}
	for _, i := range r.Items {
		if !i.Succeeded() {
			failed = append(failed, i)
		}
	}

	return failed
}

// Err returns an error holding one entry per failed item, or nil.
func (r *Report) Err() error {
	var merr *multierror.Error
	for _, i := range r.Failed() {
		merr = multierror.Append(merr, fmt.Errorf("pushing %s: %w", i.FileInfo.NodePath(), i.Err))
	}

	return merr.ErrorOrNil()
}

// Pusher pushes local trees to a repository.
type Pusher struct {
	repo    repository.Repository
	ignores []*ignorePattern
	log     log.Logger
}

type Opt func(*Pusher) (*Pusher, error)

// WithIgnores skips every path matching any of the doublestar patterns.
func WithIgnores(patterns ...string) Opt {
	return func(p *Pusher) (*Pusher, error) {
		for _, pattern := range patterns {
			ignore, err := newIgnorePattern(pattern)
			if err != nil {
				return p, fmt.Errorf("parsing ignore pattern: %w", err)
			}
			p.ignores = append(p.ignores, ignore)
		}

		return p, nil
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Opt {
	return func(p *Pusher) (*Pusher, error) {
		p.log = l
		return p, nil
	}
}

// New returns a new Pusher for repo.
func New(repo repository.Repository, opts ...Opt) (*Pusher, error) {
	p := &Pusher{
		repo:    repo,
		ignores: []*ignorePattern{},
		log:     log.NewNoopLogger(),
	}

	var err error
	for _, opt := range opts {
		p, err = opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Pusher) ignored(rel string, directory bool) bool {
	for _, i := range p.ignores {
		if i.matches(rel, directory) {
			return true
		}
	}

	return false
}

// Push adds every regular file below localRoot to the repository below
// remoteRoot, preserving the relative layout. A failed file doesn't stop the
// push, the returned error only reports failures to walk localRoot. Use the
// report to inspect each file.
func (p *Pusher) Push(localRoot string, remoteRoot string) (*Report, error) {
	report := &Report{
		Items:   []Item{},
		Ignored: []string{},
	}
	remoteRoot = strings.TrimRight(remoteRoot, "/")
	if remoteRoot == "" {
		remoteRoot = "/"
	}

	err := filepath.WalkDir(localRoot, func(local string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(localRoot, local)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if p.ignored(rel, d.IsDir()) {
			report.Ignored = append(report.Ignored, rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		parent := path.Dir(rel)
		if parent == "." {
			parent = ""
		}

		fi := repository.FileInfo{
			Name:             d.Name(),
			RelativeLocation: istrings.JoinPath(remoteRoot, parent),
			Location:         local,
		}

		res := p.repo.NewAddNodeCommand(fi).Execute()
		report.Items = append(report.Items, Item{FileInfo: fi, Err: res.Err()})

		fields := map[string]interface{}{
			"local":  local,
			"remote": fi.NodePath(),
		}
		if !res.IsSuccess() {
			fields["error"] = res.Err().Error()
			p.log.Warn("push failed", fields)
			return nil
		}
		p.log.Debug("pushed", fields)

		return nil
	})
	if err != nil {
		return report, fmt.Errorf("walking %s: %w", localRoot, err)
	}

	return report, nil
}
