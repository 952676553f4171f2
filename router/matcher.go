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

package router

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"

	"go4.org/netipx"
)

// Matcher is a host or IP rule of a route.
type Matcher interface {
	// Match reports whether value satisfies the rule.
	Match(value string) bool

	// String describes the rule.
	String() string
}

type literal struct {
	value string
	addr  netip.Addr
}

// Literal matches a value equal to s, ignoring case. When s is an IP
// address, equivalent notations of the same address match too.
func Literal(s string) Matcher {
	l := literal{value: strings.ToLower(s)}
	if addr, err := netip.ParseAddr(s); err == nil {
		l.addr = addr.Unmap()
	}

	return l
}

func (l literal) Match(value string) bool {
	if l.addr.IsValid() {
		if addr, err := netip.ParseAddr(value); err == nil {
			return addr.Unmap() == l.addr
		}
	}

	return strings.EqualFold(value, l.value)
}

func (l literal) String() string {
	return l.value
}

type pattern struct {
	re *regexp.Regexp
}

// Regexp matches values matching the regular expression expr.
// The expression is not anchored implicitly.
func Regexp(expr string) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMatcher, err)
	}

	return pattern{re: re}, nil
}

// MustRegexp is like [Regexp] but panics on error.
func MustRegexp(expr string) Matcher {
	m, err := Regexp(expr)
	if err != nil {
		panic(err)
	}

	return m
}

func (p pattern) Match(value string) bool {
	return p.re.MatchString(value)
}

func (p pattern) String() string {
	return "~" + p.re.String()
}

type ipSet struct {
	set  *netipx.IPSet
	desc string
}

func (s ipSet) Match(value string) bool {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return false
	}

	return s.set.Contains(addr.Unmap())
}

func (s ipSet) String() string {
	return s.desc
}

// CIDR matches client IPs inside the prefix, such as "10.0.0.0/8".
func CIDR(prefix string) (Matcher, error) {
	p, err := netip.ParsePrefix(prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMatcher, err)
	}

	var b netipx.IPSetBuilder
	b.AddPrefix(p.Masked())
	set, err := b.IPSet()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMatcher, err)
	}

	return ipSet{set: set, desc: p.Masked().String()}, nil
}

// MustCIDR is like [CIDR] but panics on error.
func MustCIDR(prefix string) Matcher {
	m, err := CIDR(prefix)
	if err != nil {
		panic(err)
	}

	return m
}

// IPRange matches client IPs between from and to, inclusive.
func IPRange(from, to string) (Matcher, error) {
	r, err := netipx.ParseIPRange(from + "-" + to)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMatcher, err)
	}

	var b netipx.IPSetBuilder
	b.AddRange(r)
	set, err := b.IPSet()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMatcher, err)
	}

	return ipSet{set: set, desc: r.String()}, nil
}

// MustIPRange is like [IPRange] but panics on error.
func MustIPRange(from, to string) Matcher {
	m, err := IPRange(from, to)
	if err != nil {
		panic(err)
	}

	return m
}

// matchAny reports whether value satisfies one of rules. An empty rule set
// accepts every value.
func matchAny(rules []Matcher, value string) bool {
	if len(rules) == 0 {
		return true
	}
	for _, m := range rules {
		if m.Match(value) {
			return true
		}
	}

	return false
}
