package helper

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// StatusLine formats the line printed for a checked project
func StatusLine(name, id, status string) string {
	return fmt.Sprintf("Checking project %s / %s : %s", name, id, status)
}

// AssertStatusLines asserts that output holds exactly the expected project
// status lines, in order, ignoring any other lines.
func AssertStatusLines(t *testing.T, output string, expected ...string) {
	t.Helper()

	var got []string

	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "Checking project ") {
			got = append(got, line)
		}
	}

	if len(expected) == 0 {
		assert.Empty(t, got, "unexpected project status lines")
		return
	}

	assert.Equal(t, expected, got, "project status lines mismatch")
}
