package skillreview_test

import (
	"testing"

	"github.com/fwojciec/skillreview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFindings(t *testing.T) {
	t.Parallel()

	// Two analyzed files: foo.go has a unit covering lines 10-14 (expanded
	// by 2 context lines to 8-16), bar.go was analyzed whole.
	files := []skillreview.PreparedFile{
		{
			Path: "foo.go",
			Units: []skillreview.Unit{
				{Hunk: skillreview.Hunk{NewStart: 10, NewCount: 5}},
			},
		},
		{
			Path:  "bar.go",
			Units: []skillreview.Unit{{Whole: true}},
		},
	}

	t.Run("located findings inside analyzed regions pass", func(t *testing.T) {
		t.Parallel()

		findings := []skillreview.Finding{
			{ID: "f1", Location: &skillreview.Location{Path: "foo.go", StartLine: 12}},
			{ID: "f2", Location: &skillreview.Location{Path: "foo.go", StartLine: 8}}, // context line
			{ID: "f3", Location: &skillreview.Location{Path: "bar.go", StartLine: 999}},
			{ID: "f4"}, // no location is always valid
		}

		errs := skillreview.ValidateFindings(files, findings, 2)
		assert.Empty(t, errs)
	})

	t.Run("unknown file returns error", func(t *testing.T) {
		t.Parallel()

		findings := []skillreview.Finding{
			{ID: "f1", Location: &skillreview.Location{Path: "missing.go", StartLine: 1}},
		}

		errs := skillreview.ValidateFindings(files, findings, 2)
		require.Len(t, errs, 1)
		assert.Equal(t, skillreview.ErrFileNotAnalyzed, errs[0].Reason)
		assert.Contains(t, errs[0].Error(), "missing.go")
	})

	t.Run("line outside every analyzed region returns error", func(t *testing.T) {
		t.Parallel()

		findings := []skillreview.Finding{
			{ID: "f1", Location: &skillreview.Location{Path: "foo.go", StartLine: 40}},
		}

		errs := skillreview.ValidateFindings(files, findings, 2)
		require.Len(t, errs, 1)
		assert.Equal(t, skillreview.ErrLineOutOfRange, errs[0].Reason)
		assert.Equal(t, "f1", errs[0].FindingID)
	})
}
