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

package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Name prefixes with extra attribute requirements.
const (
	SecurePrefix = "__Secure-"
	HostPrefix   = "__Host-"
)

// Static errors for cookie validation and parsing.
var (
	ErrInvalidName     = errors.New("cookie: invalid name")
	ErrInvalidValue    = errors.New("cookie: invalid value")
	ErrSecurePrefix    = errors.New("cookie: __Secure- prefix requires Secure")
	ErrHostPrefix      = errors.New("cookie: __Host- prefix requires Secure, no Domain and Path \"/\"")
	ErrMalformed       = errors.New("cookie: malformed Set-Cookie header")
	ErrInvalidSameSite = errors.New("cookie: invalid SameSite value")
)

// SameSite is the value of the SameSite attribute.
type SameSite string

// SameSite values.
const (
	SameSiteDefault SameSite = ""
	SameSiteStrict  SameSite = "Strict"
	SameSiteLax     SameSite = "Lax"
	SameSiteNone    SameSite = "None"
)

// Cookie is a single Set-Cookie entry.
type Cookie struct {
	Name        string
	Value       string
	Secure      bool
	HttpOnly    bool
	Partitioned bool
	// MaxAge=0 means no Max-Age attribute.
	// MaxAge<0 means delete the cookie now, serialized as Max-Age=0.
	MaxAge   int
	Domain   string
	SameSite SameSite
	Path     string
	Expires  time.Time
	// Unparsed holds attributes that are not understood, written verbatim.
	Unparsed []string
}

// String returns the serialization of the cookie for a Set-Cookie header.
// It does not validate the cookie; see [Cookie.Validate].
func (c *Cookie) String() string {
	var b strings.Builder
	b.Grow(len(c.Name) + len(c.Value) + len(c.Domain) + len(c.Path) + 64)

	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)

	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HttpOnly {
		b.WriteString("; HttpOnly")
	}
	if c.Partitioned {
		b.WriteString("; Partitioned")
	}
	switch {
	case c.MaxAge > 0:
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(c.MaxAge))
	case c.MaxAge < 0:
		b.WriteString("; Max-Age=0")
	}
	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(strings.TrimPrefix(c.Domain, "."))
	}
	if c.SameSite != SameSiteDefault {
		b.WriteString("; SameSite=")
		b.WriteString(string(c.SameSite))
	}
	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}
	if !c.Expires.IsZero() {
		b.WriteString("; Expires=")
		b.WriteString(c.Expires.UTC().Format(http.TimeFormat))
	}
	for _, extra := range c.Unparsed {
		b.WriteString("; ")
		b.WriteString(extra)
	}

	return b.String()
}

// Validate checks the cookie name, value, SameSite and name-prefix rules.
func (c *Cookie) Validate() error {
	if c.Name == "" || !isToken(c.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, c.Name)
	}
	if !isValidValue(c.Value) {
		return fmt.Errorf("%w: %q", ErrInvalidValue, c.Value)
	}
	switch c.SameSite {
	case SameSiteDefault, SameSiteStrict, SameSiteLax, SameSiteNone:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSameSite, c.SameSite)
	}

	switch {
	case strings.HasPrefix(c.Name, HostPrefix):
		if !c.Secure || c.Domain != "" || c.Path != "/" {
			return ErrHostPrefix
		}
	case strings.HasPrefix(c.Name, SecurePrefix):
		if !c.Secure {
			return ErrSecurePrefix
		}
	}

	return nil
}

// ParseSetCookie parses a single Set-Cookie header value.
// Attribute names are case-insensitive. Attributes with invalid values are
// ignored. Unknown attributes are kept in Unparsed.
func ParseSetCookie(header string) (*Cookie, error) {
	parts := strings.Split(strings.TrimSpace(header), ";")
	name, value, ok := strings.Cut(parts[0], "=")
	if !ok {
		return nil, fmt.Errorf("%w: missing '=' in %q", ErrMalformed, parts[0])
	}
	name = strings.TrimSpace(name)
	if name == "" || !isToken(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	value = strings.TrimSpace(value)
	if !isValidValue(value) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidValue, value)
	}

	c := &Cookie{Name: name, Value: value}
	for _, raw := range parts[1:] {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		attr, val, _ := strings.Cut(raw, "=")
		attr = strings.TrimSpace(attr)
		val = strings.TrimSpace(val)

		switch strings.ToLower(attr) {
		case "secure":
			c.Secure = true
		case "httponly":
			c.HttpOnly = true
		case "partitioned":
			c.Partitioned = true
		case "max-age":
			secs, err := strconv.Atoi(val)
			if err != nil || (secs != 0 && val[0] == '0') {
				continue
			}
			if secs <= 0 {
				c.MaxAge = -1
			} else {
				c.MaxAge = secs
			}
		case "domain":
			c.Domain = strings.TrimPrefix(val, ".")
		case "samesite":
			switch strings.ToLower(val) {
			case "strict":
				c.SameSite = SameSiteStrict
			case "lax":
				c.SameSite = SameSiteLax
			case "none":
				c.SameSite = SameSiteNone
			}
		case "path":
			c.Path = val
		case "expires":
			exp, err := http.ParseTime(val)
			if err != nil {
				continue
			}
			c.Expires = exp.UTC()
		default:
			c.Unparsed = append(c.Unparsed, raw)
		}
	}

	return c, nil
}

// isToken reports whether s is an RFC 7230 token.
func isToken(s string) bool {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch <= ' ' || ch >= 0x7f || strings.IndexByte("()<>@,;:\\\"/[]?={}", ch) >= 0 {
			return false
		}
	}

	return true
}

// isValidValue reports whether s is a valid cookie-value, optionally quoted.
func isValidValue(s string) bool {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch <= ' ' || ch >= 0x7f || ch == '"' || ch == ',' || ch == ';' || ch == '\\' {
			return false
		}
	}

	return true
}
