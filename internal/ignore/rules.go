// Package ignore decides which directories a recursive scan must not expand.
// Rules use gitignore-style globs evaluated against a slash-separated path
// relative to the directory being scanned.
package ignore

import (
	"path/filepath"
	"strings"
)

// DefaultPatterns skips dependency folders and dot-directories.
var DefaultPatterns = []string{"node_modules", ".*"}

// Rules is an immutable, ordered rule set. The last matching rule wins and a
// leading "!" re-includes a path.
type Rules struct {
	rules []rule
	src   []string
}

type rule struct {
	glob     string
	negate   bool
	dirOnly  bool
	anchored bool
	hasSlash bool
	literal  string
	prefix   string
	suffix   string
}

// New compiles patterns. Blank lines and "#" comments are skipped.
func New(patterns []string) *Rules {
	r := &Rules{src: append([]string(nil), patterns...)}
	for _, p := range patterns {
		if compiled, ok := compile(p); ok {
			r.rules = append(r.rules, compiled)
		}
	}
	return r
}

// Default returns the rules for DefaultPatterns.
func Default() *Rules {
	return New(DefaultPatterns)
}

// Patterns returns the source patterns.
func (r *Rules) Patterns() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.src...)
}

// Empty reports whether no rule can ever match.
func (r *Rules) Empty() bool {
	return r == nil || len(r.rules) == 0
}

// Match reports whether rel (relative to the scanned directory) is ignored.
func (r *Rules) Match(rel string, isDir bool) bool {
	if r.Empty() {
		return false
	}
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "./")
	if rel == "" || rel == "." {
		return false
	}

	ignored := false
	for _, ru := range r.rules {
		if ru.matches(rel, isDir) {
			ignored = !ru.negate
		}
	}
	return ignored
}

func compile(line string) (rule, bool) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	var ru rule
	if strings.HasPrefix(line, "!") {
		ru.negate = true
		line = line[1:]
	}
	line = strings.TrimPrefix(line, "\\")
	if strings.HasSuffix(line, "/") {
		ru.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		ru.anchored = true
		line = line[1:]
	}
	if line == "" {
		return rule{}, false
	}
	ru.glob = line
	ru.hasSlash = strings.ContainsRune(line, '/')

	switch {
	case !strings.ContainsAny(line, "*?[\\"):
		ru.literal = line
	case strings.HasPrefix(line, "*") && !strings.HasPrefix(line, "**") && !strings.ContainsAny(line[1:], "*?[\\"):
		ru.suffix = line[1:]
	case strings.HasSuffix(line, "*") && !strings.HasSuffix(line, "**") && !strings.ContainsAny(line[:len(line)-1], "*?[\\"):
		ru.prefix = line[:len(line)-1]
	}
	return ru, true
}

func (ru rule) matches(rel string, isDir bool) bool {
	if ru.dirOnly && !isDir {
		return false
	}

	name := rel
	if idx := strings.LastIndexByte(rel, '/'); idx >= 0 {
		name = rel[idx+1:]
	}
	anyLevel := !ru.hasSlash && !ru.anchored

	switch {
	case ru.literal != "":
		return rel == ru.literal || (anyLevel && name == ru.literal)
	case ru.suffix != "" && anyLevel:
		return strings.HasSuffix(name, ru.suffix)
	case ru.prefix != "" && anyLevel:
		return strings.HasPrefix(name, ru.prefix)
	}

	if ru.glob == "**" {
		return true
	}
	if rest, ok := strings.CutPrefix(ru.glob, "**/"); ok {
		return matchAnySuffix(rest, rel)
	}
	if dir, ok := strings.CutSuffix(ru.glob, "/**"); ok {
		return rel == dir || strings.HasPrefix(rel, dir+"/")
	}
	if head, tail, ok := strings.Cut(ru.glob, "/**/"); ok {
		remaining, found := strings.CutPrefix(rel, head+"/")
		return found && matchAnySuffix(tail, remaining)
	}
	if anyLevel {
		return matchAnySuffix(ru.glob, rel)
	}
	return fnmatch(ru.glob, rel)
}

// matchAnySuffix tries glob against rel and every trailing run of its
// segments.
func matchAnySuffix(glob, rel string) bool {
	for {
		if fnmatch(glob, rel) {
			return true
		}
		idx := strings.IndexByte(rel, '/')
		if idx < 0 {
			return false
		}
		rel = rel[idx+1:]
	}
}

// fnmatch matches a gitignore glob; "*" and "?" never cross "/".
func fnmatch(pattern, name string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}
			if pattern == "" {
				return !strings.Contains(name, "/")
			}
			for i := 0; i <= len(name); i++ {
				if fnmatch(pattern, name[i:]) {
					return true
				}
				if i < len(name) && name[i] == '/' {
					return false
				}
			}
			return false
		case '?':
			if name == "" || name[0] == '/' {
				return false
			}
			pattern, name = pattern[1:], name[1:]
		case '[':
			end := strings.IndexByte(pattern[1:], ']')
			if end < 0 {
				if name == "" || name[0] != '[' {
					return false
				}
				pattern, name = pattern[1:], name[1:]
				continue
			}
			if name == "" || !matchClass(pattern[1:end+1], name[0]) {
				return false
			}
			pattern, name = pattern[end+2:], name[1:]
		case '\\':
			if len(pattern) < 2 || name == "" || pattern[1] != name[0] {
				return false
			}
			pattern, name = pattern[2:], name[1:]
		default:
			if name == "" || pattern[0] != name[0] {
				return false
			}
			pattern, name = pattern[1:], name[1:]
		}
	}
	return name == ""
}

func matchClass(class string, c byte) bool {
	negate := false
	if strings.HasPrefix(class, "!") || strings.HasPrefix(class, "^") {
		negate = true
		class = class[1:]
	}
	matched := false
	for i := 0; i < len(class); i++ {
		if i+2 < len(class) && class[i+1] == '-' {
			if c >= class[i] && c <= class[i+2] {
				matched = true
				break
			}
			i += 2
			continue
		}
		if class[i] == c {
			matched = true
			break
		}
	}
	return matched != negate
}
