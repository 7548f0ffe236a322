package cmd

// Options holds the shared command-line options for the native-hub CLI.
type Options struct {
	Engine      string // Fetch strategy: rest or cli ("" = config default)
	CancelScope string // Cancel scope: login or latest ("" = config default)
	ConfigPath  string // Explicit config file path ("" = default location)
	Limit       int    // Cap repository listings
	Verbosity   int    // -v info, -vv debug, -vvv trace
}
