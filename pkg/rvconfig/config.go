// Package rvconfig binds the rvopc CLI's flags, environment variables
// and an optional config file into a single Config value via viper,
// the way other_examples/manifests/Manu343726-cucaracha wires its own
// cobra command tree.
package rvconfig

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the fully resolved set of knobs the build command needs.
type Config struct {
	Root             string   // extensions root directory
	Patterns         []string // glob patterns selecting extension files, in order
	IncludePseudo    bool     // admit every $pseudo_op unconditionally
	IncludePseudoOps []string // names to force-admit even when IncludePseudo is false
	ExpandSegmented  bool     // run the nf-field segmented-VLS expansion pass
	OutDir           string   // output directory for emitted artifacts
	Emitters         []string // emitter names to run: json, c, go, latex, rust, sverilog, chisel, spinalhdl
	LogLevel         string   // logrus level name
}

// BindFlags registers the build command's flags and binds them into v,
// so every value can come from a flag, an RVOPC_-prefixed environment
// variable, or a config file, in that precedence order.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	flags.String("root", "extensions", "extensions root directory")
	flags.StringSlice("patterns", []string{"rv*", "unratified/rv*"}, "glob patterns selecting extension files")
	flags.Bool("pseudo", false, "admit every $pseudo_op instruction")
	flags.StringSlice("include-pseudo-ops", nil, "pseudo-op names to force-admit")
	flags.Bool("expand-segmented", false, "expand nf-bearing instructions into segmented variants")
	flags.String("out", ".", "output directory for generated artifacts")
	flags.StringSlice("emit", []string{"json"}, "emitters to run: json,c,go,latex,rust,sverilog,chisel,spinalhdl")
	flags.String("log-level", "info", "logrus level: trace,debug,info,warn,error")

	v.SetEnvPrefix("RVOPC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	_ = v.BindPFlag("root", flags.Lookup("root"))
	_ = v.BindPFlag("patterns", flags.Lookup("patterns"))
	_ = v.BindPFlag("pseudo", flags.Lookup("pseudo"))
	_ = v.BindPFlag("include-pseudo-ops", flags.Lookup("include-pseudo-ops"))
	_ = v.BindPFlag("expand-segmented", flags.Lookup("expand-segmented"))
	_ = v.BindPFlag("out", flags.Lookup("out"))
	_ = v.BindPFlag("emit", flags.Lookup("emit"))
	_ = v.BindPFlag("log-level", flags.Lookup("log-level"))
}

// Load reads the bound values out of v into a Config.
func Load(v *viper.Viper) Config {
	return Config{
		Root:             v.GetString("root"),
		Patterns:         v.GetStringSlice("patterns"),
		IncludePseudo:    v.GetBool("pseudo"),
		IncludePseudoOps: v.GetStringSlice("include-pseudo-ops"),
		ExpandSegmented:  v.GetBool("expand-segmented"),
		OutDir:           v.GetString("out"),
		Emitters:         v.GetStringSlice("emit"),
		LogLevel:         v.GetString("log-level"),
	}
}

// New returns a viper instance configured to additionally read an
// optional "rvopc.yaml"/"rvopc.json"/"rvopc.toml" config file from the
// current directory or "/etc/rvopc/", if present.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("rvopc")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/rvopc/")
	// A missing or unreadable config file is ignored; flags and
	// environment variables still apply.
	_ = v.ReadInConfig()
	return v
}
