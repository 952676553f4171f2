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

package compiler

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Static errors for template compilation and URL building.
var (
	ErrEmptyTemplate      = errors.New("empty path template")
	ErrEmptySegment       = errors.New("empty path segment")
	ErrInvalidParamName   = errors.New("invalid parameter name")
	ErrDuplicateParamName = errors.New("duplicate parameter name")
	ErrMissingParam       = errors.New("missing parameter value")
)

// Pattern is a compiled path template.
// It pre-computes segment positions and parameter names so matching is a
// single pass over the candidate path.
type Pattern struct {
	template string

	segmentCount   int
	staticSegments []string // Literal segments that must match exactly
	staticPos      []int    // Positions of literal segments
	paramNames     []string // Parameter names in extraction order
	paramPos       []int    // Positions where parameters are extracted
}

// Compile compiles a path template such as "/users/:id/posts/:pid".
// A missing leading slash is added and trailing slashes are removed.
func Compile(template string) (*Pattern, error) {
	template = strings.TrimSpace(template)
	if template == "" {
		return nil, ErrEmptyTemplate
	}
	if template[0] != '/' {
		template = "/" + template
	}
	for len(template) > 1 && template[len(template)-1] == '/' {
		template = template[:len(template)-1]
	}

	p := &Pattern{template: template}
	if template == "/" {
		return p, nil
	}

	segments := strings.Split(template[1:], "/")
	p.segmentCount = len(segments)

	for i, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("%w in %q", ErrEmptySegment, template)
		}

		if !strings.HasPrefix(seg, ":") {
			p.staticSegments = append(p.staticSegments, seg)
			p.staticPos = append(p.staticPos, i)
			continue
		}

		name := seg[1:]
		if !validParamName(name) {
			return nil, fmt.Errorf("%w %q in %q", ErrInvalidParamName, name, template)
		}
		if slices.Contains(p.paramNames, name) {
			return nil, fmt.Errorf("%w %q in %q", ErrDuplicateParamName, name, template)
		}
		p.paramNames = append(p.paramNames, name)
		p.paramPos = append(p.paramPos, i)
	}

	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(template string) *Pattern {
	p, err := Compile(template)
	if err != nil {
		panic(fmt.Sprintf("compiler: %v", err))
	}

	return p
}

// String returns the normalized template.
func (p *Pattern) String() string {
	return p.template
}

// ParamNames returns the parameter names in template order.
func (p *Pattern) ParamNames() []string {
	return slices.Clone(p.paramNames)
}

// IsStatic reports whether the template has no parameters.
func (p *Pattern) IsStatic() bool {
	return len(p.paramNames) == 0
}

// Specificity returns the number of literal segments.
func (p *Pattern) Specificity() int {
	return len(p.staticSegments)
}

// Test reports whether candidate matches the pattern.
func (p *Pattern) Test(candidate string) bool {
	return p.match(candidate, nil)
}

// Match returns the captured parameters when candidate matches.
// The map is empty, not nil, for a matching template without parameters.
func (p *Pattern) Match(candidate string) (map[string]string, bool) {
	params := make(map[string]string, len(p.paramNames))
	if !p.match(candidate, params) {
		return nil, false
	}

	return params, true
}

// match walks the candidate segments once. params may be nil.
func (p *Pattern) match(candidate string, params map[string]string) bool {
	if candidate == "" {
		candidate = "/"
	}
	if candidate[0] != '/' {
		return false
	}
	if p.segmentCount == 0 {
		return candidate == "/"
	}

	rest := candidate[1:]
	staticIdx, paramIdx := 0, 0
	for i := range p.segmentCount {
		seg, tail, found := strings.Cut(rest, "/")
		last := i == p.segmentCount-1
		if found == last {
			// Too many segments, or too few.
			return false
		}
		rest = tail

		if staticIdx < len(p.staticPos) && p.staticPos[staticIdx] == i {
			if seg != p.staticSegments[staticIdx] {
				return false
			}
			staticIdx++
			continue
		}

		if seg == "" {
			return false
		}
		if params != nil {
			params[p.paramNames[paramIdx]] = seg
		}
		paramIdx++
	}

	return true
}

// Build substitutes params into the template. Values are path-escaped.
func (p *Pattern) Build(params map[string]string) (string, error) {
	if p.segmentCount == 0 {
		return "/", nil
	}

	segments := strings.Split(p.template[1:], "/")
	for i, pos := range p.paramPos {
		name := p.paramNames[i]
		value, ok := params[name]
		if !ok || value == "" {
			return "", fmt.Errorf("%w %q for %q", ErrMissingParam, name, p.template)
		}
		segments[pos] = url.PathEscape(value)
	}

	return "/" + strings.Join(segments, "/"), nil
}

func validParamName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch != '_' && (ch < '0' || ch > '9') && (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') {
			return false
		}
	}

	return true
}
