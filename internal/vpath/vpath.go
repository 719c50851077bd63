// Package vpath implements path math for TFVC server paths.
// Server paths are rooted at "$/" and use forward slashes regardless of the
// local platform. Comparisons are case-insensitive, matching server behavior.
package vpath

import (
	"strings"
)

// Root is the server path of the repository root.
const Root = "$/"

// IsServerPath reports whether s looks like a server path.
func IsServerPath(s string) bool {
	return s == "$" || strings.HasPrefix(s, Root)
}

// Join appends path elements to a server path, normalizing separators.
// Empty elements are skipped.
func Join(parent string, elem ...string) string {
	out := strings.TrimSuffix(parent, "/")
	for _, e := range elem {
		e = strings.Trim(strings.ReplaceAll(e, "\\", "/"), "/")
		if e == "" {
			continue
		}
		out += "/" + e
	}
	if out == "$" {
		return Root
	}
	return out
}

// Parent returns the server path of the containing folder.
// The parent of the root is the root itself.
func Parent(p string) string {
	p = strings.TrimSuffix(p, "/")
	idx := strings.LastIndex(p, "/")
	if idx <= 1 {
		return Root
	}
	return p[:idx]
}

// Base returns the last element of a server path.
func Base(p string) string {
	p = strings.TrimSuffix(p, "/")
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}

// IsUnder reports whether child is equal to or located below parent.
func IsUnder(child, parent string) bool {
	c := strings.TrimSuffix(child, "/")
	p := strings.TrimSuffix(parent, "/")
	if strings.EqualFold(c, p) {
		return true
	}
	return len(c) > len(p) && strings.EqualFold(c[:len(p)], p) && c[len(p)] == '/'
}

// RelativeTo returns the path of child relative to parent and whether child
// is actually under parent. The returned path uses forward slashes and has
// no leading separator.
func RelativeTo(child, parent string) (string, bool) {
	if !IsUnder(child, parent) {
		return "", false
	}
	c := strings.TrimSuffix(child, "/")
	p := strings.TrimSuffix(parent, "/")
	if strings.EqualFold(c, p) {
		return "", true
	}
	return strings.TrimPrefix(c[len(p):], "/"), true
}
