// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package push

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignorePattern is a single doublestar ignore pattern. A trailing slash only
// matches directories, a leading slash anchors the pattern to the push root
// and a pattern without any slash also matches the base name of a path.
type ignorePattern struct {
	pattern       string
	directoryOnly bool
	matchLeaf     bool
}

func newIgnorePattern(pattern string) (*ignorePattern, error) {
	if pattern == "" || pattern == "/" {
		return nil, errors.New("empty pattern")
	}

	absolute := strings.HasPrefix(pattern, "/")
	pattern = strings.TrimPrefix(pattern, "/")

	directoryOnly := strings.HasSuffix(pattern, "/")
	pattern = strings.TrimSuffix(pattern, "/")

	if pattern == "" {
		return nil, errors.New("empty pattern")
	}

	if _, err := doublestar.Match(pattern, "a"); err != nil {
		return nil, fmt.Errorf("validating pattern %s: %w", pattern, err)
	}

	return &ignorePattern{
		pattern:       pattern,
		directoryOnly: directoryOnly,
		matchLeaf:     !absolute && !strings.Contains(pattern, "/"),
	}, nil
}

// matches reports whether the slash separated path, relative to the push
// root, is ignored.
func (i *ignorePattern) matches(rel string, directory bool) bool {
	if i.directoryOnly && !directory {
		return false
	}

	if match, _ := doublestar.Match(i.pattern, rel); match {
		return true
	}

	if i.matchLeaf && rel != "" {
		if match, _ := doublestar.Match(i.pattern, path.Base(rel)); match {
			return true
		}
	}

	return false
}
