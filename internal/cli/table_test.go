package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abarros/triagem/internal/model"
	"github.com/abarros/triagem/internal/service"
)

func TestRenderClassifications(t *testing.T) {
	results := []model.SavingsClassification{
		{LocalID: "row-1", Kind: model.SavingsMaximal, Amount: 35, Explanation: "unnecessary re-verification avoided"},
		{LocalID: "row-2", Kind: model.SavingsNone, Explanation: "no savings detected"},
	}

	out := RenderClassifications(results)

	assert.Contains(t, out, "row-1")
	assert.Contains(t, out, "row-2")
	assert.Contains(t, out, "unnecessary re-verification avoided")
	assert.True(t, strings.Count(out, "\n") >= 3)
}

func TestRenderStats(t *testing.T) {
	out := RenderStats(service.ScreeningStats{
		TotalProviders: 10,
		WithSavings:    4,
		TotalAvoided:   140,
		Duration:       1500 * time.Millisecond,
	})

	assert.Contains(t, out, "10")
	assert.Contains(t, out, "140.00")
	assert.Contains(t, out, "1.5s")
}
