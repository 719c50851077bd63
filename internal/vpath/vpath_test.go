package vpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		name   string
		parent string
		elem   []string
		want   string
	}{
		{name: "root plus element", parent: "$/", elem: []string{"proj"}, want: "$/proj"},
		{name: "nested elements", parent: "$/proj", elem: []string{"dir", "file.txt"}, want: "$/proj/dir/file.txt"},
		{name: "backslash element", parent: "$/proj", elem: []string{`dir\sub`}, want: "$/proj/dir/sub"},
		{name: "empty element skipped", parent: "$/proj", elem: []string{"", "a"}, want: "$/proj/a"},
		{name: "no elements", parent: "$/proj/", elem: nil, want: "$/proj"},
		{name: "root no elements", parent: "$/", elem: nil, want: "$/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.parent, tt.elem...))
		})
	}
}

func TestParent(t *testing.T) {
	assert.Equal(t, "$/proj/dir", Parent("$/proj/dir/file.txt"))
	assert.Equal(t, "$/", Parent("$/proj"))
	assert.Equal(t, "$/", Parent("$/"))
	assert.Equal(t, "$/proj", Parent("$/proj/dir/"))
}

func TestBase(t *testing.T) {
	assert.Equal(t, "file.txt", Base("$/proj/dir/file.txt"))
	assert.Equal(t, "proj", Base("$/proj/"))
}

func TestIsUnder(t *testing.T) {
	tests := []struct {
		name   string
		child  string
		parent string
		want   bool
	}{
		{name: "direct child", child: "$/proj/file.txt", parent: "$/proj", want: true},
		{name: "self", child: "$/proj", parent: "$/proj", want: true},
		{name: "case insensitive", child: "$/Proj/File.txt", parent: "$/proj", want: true},
		{name: "sibling prefix is not a parent", child: "$/project/file.txt", parent: "$/proj", want: false},
		{name: "everything is under root", child: "$/proj/file.txt", parent: "$/", want: true},
		{name: "unrelated", child: "$/other/file.txt", parent: "$/proj", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnder(tt.child, tt.parent))
		})
	}
}

func TestRelativeTo(t *testing.T) {
	rel, ok := RelativeTo("$/proj/dir/file.txt", "$/proj")
	assert.True(t, ok)
	assert.Equal(t, "dir/file.txt", rel)

	rel, ok = RelativeTo("$/proj", "$/proj")
	assert.True(t, ok)
	assert.Equal(t, "", rel)

	_, ok = RelativeTo("$/other", "$/proj")
	assert.False(t, ok)
}
