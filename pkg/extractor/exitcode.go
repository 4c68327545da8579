package extractor

import "fmt"

// ExitCode is an unrar compatible exit status
type ExitCode int

// Exit codes returned by unrar
const (
	Success        ExitCode = 0
	Warning        ExitCode = 1
	Fatal          ExitCode = 2
	CRCError       ExitCode = 3
	LockedArchive  ExitCode = 4
	WriteError     ExitCode = 5
	OpenError      ExitCode = 6
	UserError      ExitCode = 7
	MemoryError    ExitCode = 8
	CreateError    ExitCode = 9
	PreviousVolume ExitCode = 10
	BadPassword    ExitCode = 11
	UserBreak      ExitCode = 255
)

var messages = map[ExitCode]string{
	Success:        "Success",
	Warning:        "Non fatal error(s) occurred",
	Fatal:          "A fatal error occurred",
	CRCError:       "A CRC error occurred when unpacking",
	LockedArchive:  "Attempt to modify an archive previously locked by the 'k' command",
	WriteError:     "Write to disk error",
	OpenError:      "Open file error",
	UserError:      "Command line option error",
	MemoryError:    "Not enough memory for operation",
	CreateError:    "Create file error",
	PreviousVolume: "You need to start extraction from a previous volume to unpack",
	BadPassword:    "Wrong password",
	UserBreak:      "User stopped the process",
}

// Known reports whether c has a documented meaning
func (c ExitCode) Known() bool {
	_, ok := messages[c]
	return ok
}

func (c ExitCode) String() string {
	if msg, ok := messages[c]; ok {
		return msg
	}
	return fmt.Sprintf("Unknown error code: %d", int(c))
}
