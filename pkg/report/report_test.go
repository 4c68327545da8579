package report

import (
	"testing"

	"github.com/crazy-max/unrarall/pkg/extractor"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	a := Result{Extracted: 2, Failures: []Failure{{Archive: "/A/a.rar", Code: 3}}}
	b := Result{Extracted: 1, Failures: []Failure{{Archive: "/B/b.rar", Code: 42}}}

	res := a.Merge(b)
	assert.Equal(t, 3, res.Extracted)
	assert.Equal(t, []Failure{
		{Archive: "/A/a.rar", Code: 3},
		{Archive: "/B/b.rar", Code: 42},
	}, res.Failures)

	// operands are left untouched
	assert.Len(t, a.Failures, 1)
	assert.Len(t, b.Failures, 1)

	assert.Nil(t, Result{}.Merge(Result{Extracted: 1}).Failures)
}

func TestSummary(t *testing.T) {
	testCases := []struct {
		desc     string
		result   Result
		expected string
	}{
		{
			desc:     "nothing",
			result:   Result{},
			expected: "All done - 0 archives processed",
		},
		{
			desc:     "one",
			result:   Result{Extracted: 1},
			expected: "All done - 1 archive processed",
		},
		{
			desc:     "one error",
			result:   Result{Extracted: 2, Failures: []Failure{{Code: 3}}},
			expected: "All done - 2 archives processed, 1 error",
		},
		{
			desc:     "many errors",
			result:   Result{Failures: []Failure{{Code: 3}, {Code: 2}}},
			expected: "All done - 0 archives processed, 2 errors",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.Summary())
			assert.Equal(t, len(tt.result.Failures) > 0, tt.result.Failed())
		})
	}
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "A CRC error occurred when unpacking", Failure{Code: extractor.CRCError}.Message())
	assert.Equal(t, "Unknown error code: 42", Failure{Code: 42}.Message())
	assert.Equal(t, "A fatal error occurred: boom", Failure{Code: extractor.Fatal, Err: errors.New("boom")}.Message())
}
