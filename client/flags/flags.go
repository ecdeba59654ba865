package flags

import (
	"strings"

	"github.com/gammadia/lmprun/runfile"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	LogFormat = "log-format"
	LogLevel  = "log-level"
	LogSource = "log-source"
	Runfile   = "runfile"
)

// Bind registers the global flags and binds them into viper. Each flag can
// also be set through the environment, e.g. LMPRUN_LOG_LEVEL=DEBUG.
func Bind(flags *flag.FlagSet) error {
	flags.String(LogFormat, "text", "log format (json, text)")
	flags.String(LogLevel, "INFO", "minimum log level")
	flags.Bool(LogSource, false, "add source code location to logs")
	flags.StringP(Runfile, "f", runfile.DefaultFile, "runfile describing the launch targets")

	viper.SetEnvPrefix("lmprun")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	return viper.BindPFlags(flags)
}
