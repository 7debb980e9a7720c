package config

import (
	"flag"
	"fmt"
	"math"
	"os"
)

var (
	flagSet          = flag.NewFlagSet("objtool", flag.ExitOnError)
	flagConfig       = flagSet.String("config", "", "Path to config file")
	flagDebug        = flagSet.Bool("debug", false, "Enable debug logging")
	flagPolicy       = flagSet.String("policy", "", "Malformed line policy: strict or lenient")
	flagEncoding     = flagSet.String("encoding", "", "Source text encoding (e.g. euc-kr, latin1)")
	flagMode         = flagSet.String("mode", "", "Buffer mode: indexed or expanded")
	flagBarycentric  = flagSet.Bool("barycentric", false, "Emit barycentric weights (forces expanded mode)")
	flagMaterialID   = flagSet.Int64("material", -1, "Default material id (0 to 4294967295)")
	flagWorkers      = flagSet.Int("workers", 0, "Parallel resolve workers")
	flagMaterialAttr = flagSet.Bool("material-attr", false, "Add the material id to the vertex layout")
	flagLimit        = flagSet.Int("n", 0, "Limit dumped vertices and indices to N (0 = all)")
)

// ParseFlags parses command flags from args (normally os.Args[2:], after
// the command name).
func ParseFlags(args []string) {
	flagSet.Parse(args)
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flagSet.Args()
}

// Limit returns the -n output limit for listing commands.
func Limit() int {
	return *flagLimit
}

// PrintDefaults writes flag help to stderr.
func PrintDefaults() {
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagPolicy != "" {
		cfg.Parse.Policy = *flagPolicy
	}
	if *flagEncoding != "" {
		cfg.Parse.Encoding = *flagEncoding
	}
	if *flagMode != "" {
		cfg.Emit.Mode = *flagMode
	}
	if *flagBarycentric {
		cfg.Emit.Barycentric = true
		cfg.Emit.Mode = "expanded"
	}
	if *flagMaterialID >= 0 {
		if *flagMaterialID > math.MaxUint32 {
			return fmt.Errorf("-material %d does not fit in 32 bits", *flagMaterialID)
		}
		cfg.Emit.MaterialID = uint32(*flagMaterialID)
	}
	if *flagWorkers > 0 {
		cfg.Emit.Workers = *flagWorkers
	}
	if *flagMaterialAttr {
		cfg.Emit.MaterialAttribute = true
	}
	return nil
}
