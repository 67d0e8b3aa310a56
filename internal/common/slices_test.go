package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	got := Dedupe([]string{"b", "a", "b", "c", "a"})
	assert.Equal(t, []string{"b", "a", "c"}, got)
	assert.Empty(t, Dedupe([]int(nil)))
}
