// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"fmt"
	"regexp"
	"strings"
)

// pathFilter handles path exclusion logic for metrics.
// It supports exact paths, prefixes, and regex patterns.
type pathFilter struct {
	paths    map[string]bool
	prefixes []string
	patterns []*regexp.Regexp
	errs     []error
}

func newPathFilter() *pathFilter {
	return &pathFilter{
		paths: make(map[string]bool),
	}
}

// shouldExclude returns true if the path should be excluded from metrics.
func (pf *pathFilter) shouldExclude(path string) bool {
	if pf.paths[path] {
		return true
	}
	for _, prefix := range pf.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, pattern := range pf.patterns {
		if pattern.MatchString(path) {
			return true
		}
	}

	return false
}

// EntryOption configures the entries returned by [Recorder.Entries].
type EntryOption func(*pathFilter)

// WithExcludePaths excludes exact paths from metrics collection.
func WithExcludePaths(paths ...string) EntryOption {
	return func(pf *pathFilter) {
		for _, p := range paths {
			pf.paths[p] = true
		}
	}
}

// WithExcludePrefixes excludes paths with the given prefixes.
func WithExcludePrefixes(prefixes ...string) EntryOption {
	return func(pf *pathFilter) {
		pf.prefixes = append(pf.prefixes, prefixes...)
	}
}

// WithExcludePatterns excludes paths matching the given regular expressions.
// Invalid patterns make [Recorder.Entries] panic.
func WithExcludePatterns(patterns ...string) EntryOption {
	return func(pf *pathFilter) {
		for _, pattern := range patterns {
			compiled, err := regexp.Compile(pattern)
			if err != nil {
				pf.errs = append(pf.errs, fmt.Errorf("invalid regex pattern for path exclusion %q: %w", pattern, err))
				continue
			}
			pf.patterns = append(pf.patterns, compiled)
		}
	}
}
