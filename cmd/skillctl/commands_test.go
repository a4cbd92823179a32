package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skill-matrix/internal/domain/grading"
)

func TestParseChanges(t *testing.T) {
	got, err := parseChanges([]string{"1=3", " 2 = 0 "})
	require.NoError(t, err)
	assert.Equal(t, []grading.Change{{SubskillID: 1, GradeID: 3}, {SubskillID: 2, GradeID: 0}}, got)

	for _, bad := range [][]string{nil, {"1"}, {"x=1"}, {"0=1"}, {"1=-1"}} {
		_, err := parseChanges(bad)
		assert.Error(t, err, "%v", bad)
	}
}
