// Package flag provides typed accessors for viper-bound global flags.
package flag

import (
	"github.com/spf13/viper"
)

// Verbose returns the number of -v options.
func Verbose() int {
	return viper.GetInt("verbose")
}

// Quiet returns the number of -q options.
func Quiet() int {
	return viper.GetInt("quiet")
}

// Dryrun indicates dryrun mode: outputs are computed but not written.
func Dryrun() bool {
	return viper.GetBool("dryrun")
}

// ConfigFile returns the explicit configuration file given by --config.
func ConfigFile() string {
	return viper.GetString("config")
}

// Force allows commands to overwrite existing output without asking.
func Force() bool {
	return viper.GetBool("force")
}

// NoColor disables colored summary output.
func NoColor() bool {
	return viper.GetBool("no-color")
}
