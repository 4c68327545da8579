package extractor

import (
	"context"
)

// Handler is an extractor interface
type Handler interface {
	Extract(ctx context.Context, plan Plan) (ExitCode, error)
	Type() string
}

// Client represents an active extractor object
type Client struct {
	Handler
}

// Plan describes the extraction of one archive set
type Plan struct {
	// Source is the starting volume of the set
	Source string
	// Target is the directory to extract into
	Target string
	// DryRun only reports what would be done
	DryRun bool
	// Verbose relays extractor output
	Verbose bool
	// KeepPaths keeps the directory structure stored in the archive
	KeepPaths bool
	// Password for encrypted archives
	Password string
	// ContinueOnError skips damaged entries instead of aborting the set
	ContinueOnError bool
}
