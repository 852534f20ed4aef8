package governor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameSet_FoldCase(t *testing.T) {
	set := NewNameSet([]string{"Explorer.EXE", "", "explorer.exe", "svchost.exe"}, true)

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("EXPLORER.exe"))
	assert.True(t, set.Contains("svchost.exe"))
	assert.False(t, set.Contains("notepad.exe"))
	assert.Equal(t, []string{"explorer.exe", "svchost.exe"}, set.Names())
}

func TestNameSet_CaseSensitive(t *testing.T) {
	set := NewNameSet([]string{"Xorg"}, false)

	assert.True(t, set.Contains("Xorg"))
	assert.False(t, set.Contains("xorg"))
}

func TestNameSet_Zero(t *testing.T) {
	var set NameSet
	assert.False(t, set.Contains("anything"))
	assert.Empty(t, set.Names())
}

func TestBypassPolicy(t *testing.T) {
	policy := NewBypassPolicy([]string{"csrss.exe"}, true)
	assert.True(t, policy.Bypassed("CSRSS.EXE"))
	assert.False(t, policy.Bypassed("chrome.exe"))
	assert.Equal(t, 1, policy.Len())

	var none *BypassPolicy
	assert.False(t, none.Bypassed("csrss.exe"))
	assert.Equal(t, 0, none.Len())
}
