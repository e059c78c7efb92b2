package version

import "fmt"

// These variables are populated at build time via -ldflags.
var (
	Name    = "csvbrowse"
	Version = "dev"
	Commit  = ""
	Date    = ""
)

func String() string {
	base := Version
	if Commit != "" {
		base += fmt.Sprintf(" (%s)", Commit)
	}
	if Date != "" {
		base += fmt.Sprintf(" %s", Date)
	}
	return base
}

// Banner is the one-line identification printed by --version and the
// startup log line.
func Banner() string { return Name + " " + String() }
