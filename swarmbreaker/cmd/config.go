// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/breaker"
	"github.com/spf13/cobra"
)

// Config contains options which can also be given in a TOML file.
// Values of flags explicitly set in the command line have higher priority.
type Config struct {
	Breaker BreakerConfig `toml:"breaker"`
	Linker  LinkerConfig  `toml:"linker"`
}

// BreakerConfig contains parameters of the valley heuristic.
type BreakerConfig struct {
	ActivityThreshold int     `toml:"activity-threshold" comment:"minimum abundance of a peak"`
	ValleyRatio       float64 `toml:"valley-ratio" comment:"minimum ratio of the ending peak to the valley to force a cut"`
	PeakRatio         float64 `toml:"peak-ratio" comment:"maximum ratio of the starting peak to the ending peak to be comparable"`
}

// LinkerConfig contains options of the swarm binary.
type LinkerConfig struct {
	Binary      string `toml:"binary" comment:"swarm binary, a name in PATH or a path"`
	Format      string `toml:"format" comment:"legacy (swarm 1.x, -b) or internal (swarm >= 2, -i)"`
	Differences int    `toml:"differences" comment:"local clustering threshold"`
	Threads     int    `toml:"threads" comment:"threads of each swarm run"`
}

func defaultConfig() *Config {
	return &Config{
		Breaker: BreakerConfig{
			ActivityThreshold: breaker.DefaultOptions.ActivityThreshold,
			ValleyRatio:       breaker.DefaultOptions.ValleyRatio,
			PeakRatio:         breaker.DefaultOptions.PeakRatio,
		},
		Linker: LinkerConfig{
			Binary:      "swarm",
			Format:      "legacy",
			Differences: breaker.DefaultOptions.Differences,
			Threads:     1,
		},
	}
}

func readConfig(file string) (*Config, error) {
	cfg := defaultConfig()

	fh, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file")
	}
	defer fh.Close()

	decoder := toml.NewDecoder(fh)
	decoder.DisallowUnknownFields()
	if err = decoder.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config file: %s", file)
	}
	return cfg, nil
}

// getConfig reads the config file if given and overrides values
// with flags explicitly set in the command line.
func getConfig(cmd *cobra.Command) *Config {
	var cfg *Config
	var err error
	file := getFlagString(cmd, "config")
	if file != "" {
		cfg, err = readConfig(checkInputFile(file, "--config"))
		checkError(err)
	} else {
		cfg = defaultConfig()
	}

	// flags might be absent in some commands
	flags := cmd.Flags()
	use := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && (f.Changed || file == "")
	}

	if use("activity-threshold") {
		cfg.Breaker.ActivityThreshold = getFlagPositiveInt(cmd, "activity-threshold")
	}
	if use("valley-ratio") {
		cfg.Breaker.ValleyRatio = getFlagPositiveFloat64(cmd, "valley-ratio")
	}
	if use("peak-ratio") {
		cfg.Breaker.PeakRatio = getFlagPositiveFloat64(cmd, "peak-ratio")
	}
	if use("binary") {
		cfg.Linker.Binary = getFlagString(cmd, "binary")
	}
	if use("format") {
		cfg.Linker.Format = getFlagString(cmd, "format")
	}
	if use("differences") {
		cfg.Linker.Differences = getFlagPositiveInt(cmd, "differences")
	}
	if use("swarm-threads") {
		cfg.Linker.Threads = getFlagPositiveInt(cmd, "swarm-threads")
	}
	return cfg
}

// BreakerOptions converts the config to options of the breaker.
func (cfg *Config) BreakerOptions() *breaker.Options {
	return &breaker.Options{
		ActivityThreshold: cfg.Breaker.ActivityThreshold,
		ValleyRatio:       cfg.Breaker.ValleyRatio,
		PeakRatio:         cfg.Breaker.PeakRatio,
		Differences:       cfg.Linker.Differences,
	}
}

// addLinkerFlags adds flags shared by commands running swarm.
func addLinkerFlags(cmd *cobra.Command) {
	def := defaultConfig()

	cmd.Flags().StringP("binary", "b", def.Linker.Binary,
		formatFlagUsage(`Swarm binary, a name in PATH or a path.`))

	cmd.Flags().StringP("format", "", def.Linker.Format,
		formatFlagUsage(`Format of pairwise links reported by swarm. Available values: `+
			`"legacy" (swarm 1.x, stderr of -b/--break_swarms), "internal" (swarm >= 2, -i/--internal-structure).`))

	cmd.Flags().IntP("differences", "d", def.Linker.Differences,
		formatFlagUsage(`Local clustering threshold, i.e., maximum number of differences.`))

	cmd.Flags().IntP("swarm-threads", "", def.Linker.Threads,
		formatFlagUsage(`Number of threads of each swarm run.`))

	cmd.Flags().StringP("config", "", "",
		formatFlagUsage(`Config file in TOML format, see "swarmbreaker utils default-config". `+
			`Flags explicitly given have higher priority.`))
}

var defaultConfigCmd = &cobra.Command{
	Use:   "default-config",
	Short: "Print the default config in TOML format",
	Long: `Print the default config in TOML format

`,
	Run: func(cmd *cobra.Command, args []string) {
		data, err := toml.Marshal(defaultConfig())
		checkError(err)
		os.Stdout.Write(data)
	},
}

func init() {
	utilsCmd.AddCommand(defaultConfigCmd)

	defaultConfigCmd.SetUsageTemplate(usageTemplate(""))
}
