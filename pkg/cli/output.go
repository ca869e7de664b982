package cli

import (
	"io"

	"github.com/getmockd/echoidp/pkg/cli/internal/output"
)

// printResult outputs a single operation result.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to w. textFn is called only in text mode.
func printResult(w io.Writer, opts *rootOptions, data any, textFn func() error) error {
	if opts.jsonOutput {
		return output.JSON(w, data)
	}
	return textFn()
}
