package config

import (
	"time"

	"github.com/alecthomas/kong"
)

// Extractor backends
const (
	ExtractorUnrar   = "unrar"
	ExtractorBuiltin = "builtin"
)

type Cli struct {
	Version kong.VersionFlag

	LogLevel   string `kong:"name=log-level,env=LOG_LEVEL,default=info,help='Set log level.'"`
	LogJSON    bool   `kong:"name=log-json,env=LOG_JSON,default=false,help='Enable JSON logging output.'"`
	LogCaller  bool   `kong:"name=log-caller,env=LOG_CALLER,default=false,help='Add file:line of the caller to log output.'"`
	LogNoColor bool   `kong:"name=log-nocolor,env=LOG_NOCOLOR,default=false,help='Disable colorized output.'"`

	Target string `kong:"name=target,short=t,required,env=UNRARALL_TARGET,help='Target directory for unrared files.'"`
	Source string `kong:"name=source,short=s,default=.,env=UNRARALL_SOURCE,help='Source directory to scan.'"`

	Verbose bool `kong:"name=verbose,short=v,default=false,help='Increase verbosity of unrar, otherwise silent operation.'"`
	DryRun  bool `kong:"name=dry-run,default=false,help='Simulation of process, will not attempt to unrar archives.'"`

	Extractor       string        `kong:"name=extractor,enum='unrar,builtin',default=unrar,env=UNRARALL_EXTRACTOR,help='Extractor backend (unrar or builtin).'"`
	UnrarBin        string        `kong:"name=unrar-bin,default=unrar,env=UNRARALL_UNRAR_BIN,help='Name or path of the unrar binary.'"`
	KeepPaths       bool          `kong:"name=keep-paths,default=false,help='Keep the directory structure stored in archives.'"`
	Password        string        `kong:"name=password,env=UNRARALL_PASSWORD,help='Password for encrypted archives.'"`
	ContinueOnError bool          `kong:"name=continue-on-error,default=false,help='Skip damaged entries with the builtin extractor instead of aborting the archive set.'"`
	Timeout         time.Duration `kong:"name=timeout,default=0,env=UNRARALL_TIMEOUT,help='Abort an archive set extraction after this duration (0 waits forever).'"`
	MaxSuffix       int           `kong:"name=max-suffix,default=99,env=UNRARALL_MAX_SUFFIX,help='Highest -NN suffix tried when a target directory already exists.'"`
}
