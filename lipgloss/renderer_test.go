package lipgloss_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	comparator "github.com/subrat-kp/response-comparator"
	"github.com/subrat-kp/response-comparator/lipgloss"
)

func TestPlainRenderer_Render(t *testing.T) {
	t.Parallel()

	result := comparator.Result{
		ComparisonResult: "B. Output B is more complete.",
	}

	got := lipgloss.NewPlainRenderer().Render(result)

	lines := strings.Split(got, "\n")
	assert.Equal(t, "Comparison Result:", lines[0])
	assert.Equal(t, strings.Repeat("-", 50), lines[1])
	assert.Equal(t, "B. Output B is more complete.", lines[2])
}

func TestPlainRenderer_Render_MultilineVerdict(t *testing.T) {
	t.Parallel()

	result := comparator.Result{
		ComparisonResult: "Neither.\nBoth outputs miss the point.",
	}

	got := lipgloss.NewPlainRenderer().Render(result)

	assert.Contains(t, got, "Neither.\nBoth outputs miss the point.")
}
