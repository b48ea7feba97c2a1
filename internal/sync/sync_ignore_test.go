package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIgnoreList_BuiltInRules(t *testing.T) {
	ignore := NewIgnoreList(t.TempDir())
	ignore.Load()

	assert.True(t, ignore.ShouldIgnore(IgnoreFileName))
	assert.True(t, ignore.ShouldIgnore(lockFileName))
	assert.False(t, ignore.ShouldIgnore("regular.txt"))
	assert.False(t, ignore.ShouldIgnore("dir/nested.txt"))
}

func TestIgnoreList_UserRules(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, IgnoreFileName, "*.log\nbuild\n")

	ignore := NewIgnoreList(base)
	ignore.Load()

	assert.True(t, ignore.ShouldIgnore("debug.log"))
	assert.True(t, ignore.ShouldIgnore("dir/deep.log"))
	assert.True(t, ignore.ShouldIgnore("build"))
	assert.False(t, ignore.ShouldIgnore(".log.txt"))
	assert.False(t, ignore.ShouldIgnore("main.go"))
}

func TestIgnoreList_LazyLoad(t *testing.T) {
	ignore := NewIgnoreList(t.TempDir())
	// ShouldIgnore before Load compiles the built-in rules on demand
	assert.True(t, ignore.ShouldIgnore(lockFileName))
}
