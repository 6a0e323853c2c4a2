package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func (c *rootCommand) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML, secrets masked",
		Args:  cobra.NoArgs,
		RunE:  c.printConfig,
	}
}

func (c *rootCommand) printConfig(cmd *cobra.Command, args []string) error {
	out, err := yaml.Marshal(effectiveConfig(c.logCfg.GetMaskedValues()))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// effectiveConfig nests every viper key back into a tree, masking the secret values
func effectiveConfig(maskedWords []string) map[string]interface{} {
	keys := viper.AllKeys()
	sort.Strings(keys)

	settings := map[string]interface{}{}
	for _, key := range keys {
		value := viper.Get(key)
		if d, ok := value.(time.Duration); ok {
			value = d.String()
		}
		if log.IsMaskedKey(key, maskedWords) {
			value = log.ObscureValue(fmt.Sprint(value))
		}

		node := settings
		parts := strings.Split(key, ".")
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]interface{})
			if !ok {
				child = map[string]interface{}{}
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return settings
}
