package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/oscar-hpc/groupreport/internal"
	"github.com/oscar-hpc/groupreport/internal/options"
	"github.com/oscar-hpc/groupreport/pkg/check"
	"github.com/oscar-hpc/groupreport/version"
)

const defaultConfigPath = "/etc/groupreport/config.yaml"

var v *viper.Viper

func newRunCmd() *cobra.Command {
	opts := options.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "run GROUP",
		Short: "generate the resource usage report for a group",
		Args:  cobra.ExactArgs(1),
	}
	registerRunFlags(cmd.Flags(), opts)

	cmd.RunE = func(_ *cobra.Command, args []string) error {
		// Retrieve current Viper settings, which should presently be either default config
		// values or flags that overwrote them, and store config settings into opts.
		bs, err := json.Marshal(v.AllSettings())
		if err != nil {
			return errors.Wrap(err, "cannot marshal configuration map into json bytes")
		}
		if err = yaml.Unmarshal(bs, opts, yaml.DisallowUnknownFields); err != nil {
			return errors.Wrap(err, "cannot unmarshal configuration")
		}

		// Retrieve values from config file and merge them into Viper.
		bs, err = readConfigFile(opts.ConfigFile)
		if err != nil {
			return err
		}
		opts, err = mergeConfigIntoViper(bs)
		if err != nil {
			return err
		}

		opts.Group = args[0]
		opts.Resolve()

		if err = check.Validate(*opts); err != nil {
			return errors.Wrap(err, "command-line arguments specify illegal configuration")
		}

		if err := internal.Run(context.Background(), version.Version, opts); err != nil {
			log.Fatal(err)
		}
		return nil
	}

	return cmd
}

// registerRunFlags registers the run flags and binds each to a Viper key and
// an environment variable, giving a flag > environment > config file > default
// precedence once the config file is merged in.
func registerRunFlags(flags *pflag.FlagSet, defaults *options.Options) {
	v = viper.New()
	v.SetTypeByDefaultValue(true)

	bind := func(name string, value interface{}) {
		key := strings.ReplaceAll(name, "-", "_")
		envName := "GROUPREPORT_" + strings.ReplaceAll(strings.ToUpper(name), "-", "_")
		_ = v.BindEnv(key, envName)
		_ = v.BindPFlag(key, flags.Lookup(name))
		v.SetDefault(key, value)
	}
	registerString := func(name, shorthand, value, usage string) {
		flags.StringP(name, shorthand, value, usage)
		bind(name, value)
	}
	registerInt := func(name string, value int, usage string) {
		flags.Int(name, value, usage)
		bind(name, value)
	}

	registerString("config-file", "", defaults.ConfigFile, "location of config file")
	registerString("start", "S", defaults.Start,
		"beginning of the report period, formatted as YYYY-MM-DD")
	registerString("end", "E", defaults.End,
		"end of the report period, formatted as YYYY-MM-DD")
	registerString("quota-dir", "", defaults.QuotaDir,
		"directory holding the per-group quota snapshots")
	registerString("quota-path", "", defaults.QuotaPath,
		"path of the quota snapshot (overrides quota-dir)")
	registerString("output", "o", defaults.Output, "path of the generated report")
	registerString("sacct-path", "", defaults.SacctPath, "path of the sacct binary")
	registerInt("concurrency", defaults.Concurrency,
		"maximum concurrent accounting/identity queries")
	registerInt("page-size", defaults.PageSize, "rows per page of the member table")
	registerInt("storage-top-n", defaults.StorageTopN,
		"entries in the top storage consumers view")
	registerInt("usage-top-n", defaults.UsageTopN, "entries in the top usage views")
}

func mergeConfigIntoViper(bs []byte) (*options.Options, error) {
	var configMap map[string]interface{}
	if err := yaml.Unmarshal(bs, &configMap); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal yaml configuration file")
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return nil, errors.Wrap(err, "can't merge configuration to viper")
	}

	// Use the updated Viper config that now has default, config, and flag values set with
	// flag > config > default precedence (where > => overrides).
	return getRunConfig(v.AllSettings())
}

func readConfigFile(configPath string) ([]byte, error) {
	isDefault := configPath == ""
	if isDefault {
		configPath = defaultConfigPath
	}

	var err error
	if _, err = os.Stat(configPath); err != nil {
		if isDefault && os.IsNotExist(err) {
			log.Debugf("no configuration file at %s, skipping", configPath)
			return nil, nil
		}
		return nil, errors.Wrap(err, "error finding configuration file")
	}
	bs, err := os.ReadFile(configPath) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "error reading configuration file")
	}
	return bs, nil
}

func getRunConfig(settings map[string]interface{}) (*options.Options, error) {
	bs, err := json.Marshal(settings)
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal configuration map into json bytes")
	}

	opts := options.DefaultOptions()
	if err = yaml.Unmarshal(bs, opts, yaml.DisallowUnknownFields); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal configuration")
	}
	return opts, nil
}
