package report

import (
	"fmt"

	"github.com/crazy-max/unrarall/pkg/extractor"
)

// Failure is an archive set that could not be extracted
type Failure struct {
	// Archive is the starting volume, relative to the source directory
	Archive string
	// Code is the extractor exit code
	Code extractor.ExitCode
	// Err holds the error when the extractor could not report a code
	Err error
}

// Message returns a human readable reason
func (f Failure) Message() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Code, f.Err)
	}
	return f.Code.String()
}

// Result holds extraction counters of a directory tree
type Result struct {
	Extracted int
	Failures  []Failure
}

// Merge returns the sum of r and o
func (r Result) Merge(o Result) Result {
	res := Result{
		Extracted: r.Extracted + o.Extracted,
	}
	if n := len(r.Failures) + len(o.Failures); n > 0 {
		res.Failures = make([]Failure, 0, n)
		res.Failures = append(res.Failures, r.Failures...)
		res.Failures = append(res.Failures, o.Failures...)
	}
	return res
}

// Failed reports whether at least one archive set failed
func (r Result) Failed() bool {
	return len(r.Failures) > 0
}

// Summary returns the final one line report
func (r Result) Summary() string {
	s := fmt.Sprintf("All done - %d archive%s processed", r.Extracted, plural(r.Extracted))
	if r.Failed() {
		s += fmt.Sprintf(", %d error%s", len(r.Failures), plural(len(r.Failures)))
	}
	return s
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
