package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datacommons-hub/submission-services/util"
)

func TestStringListContains(t *testing.T) {
	list := []string{"apple", "orange", "banana"}
	assert.True(t, util.StringListContains(list, "orange"))
	assert.False(t, util.StringListContains(list, "wedgewood"))
	assert.False(t, util.StringListContains(nil, "apple"))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, util.IsEmpty(""))
	assert.True(t, util.IsEmpty("  "))
	assert.True(t, util.IsEmpty("\t\n"))
	assert.False(t, util.IsEmpty("x"))
	assert.False(t, util.IsEmpty(" x "))
}

func TestContainsMarker(t *testing.T) {
	assert.True(t, util.ContainsMarker("There is No New Metadata to validate", "no new metadata"))
	assert.True(t, util.ContainsMarker("no new metadata", "No New Metadata"))
	assert.False(t, util.ContainsMarker("all clear", "no new metadata"))
	assert.False(t, util.ContainsMarker("", "no new metadata"))
}
