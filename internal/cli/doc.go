// Package cli implements the sxmon command-line interface.
//
// Commands are package-level cobra.Command values registered in init().
// Each RunE collects its flags into an options struct and hands off to a
// plain function, so the work can be tested without going through cobra.
//
// # Command Structure
//
//	sxmon                - Run the live monitor (the default)
//	sxmon export         - Write one JSON or YAML report and exit
//	sxmon config show    - Print the effective config
//	sxmon config path    - Print the config file location
//	sxmon config edit    - Edit the config in an interactive form
//	sxmon version        - Print build information
//	sxmon completion     - Generate shell completions
//
// # Flag Handling
//
// --config and --verbose are persistent. The monitor flags (--interval,
// the thresholds, --no-alerts, --no-log) live on the root command; only the
// ones the user actually passes override the config file, and when any do
// the merged config is saved back.
package cli
