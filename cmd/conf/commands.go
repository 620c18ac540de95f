package conf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ValentinKolb/dConf/lib/dynconf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, found, err := configuration.Get(key, namespace())
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("key %q not found", key)
			}
			fmt.Println(value)
			return nil
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value of a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configuration.Set(args[0], args[1], namespace()); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configuration.Remove(args[0], namespace()); err != nil {
				return err
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	incrCmd = &cobra.Command{
		Use:   "incr [key] [count]",
		Short: "Increments the numeric value of a key (by 1 if count is omitted)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := int64(1)
			if len(args) == 2 {
				var err error
				if count, err = strconv.ParseInt(args[1], 10, 64); err != nil {
					return fmt.Errorf("count must be a number: %w", err)
				}
			}
			n, err := configuration.Increment(args[0], count, namespace())
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		},
	}
	mgetCmd = &cobra.Command{
		Use:   "mget [alias=key|key]...",
		Short: "Reads multiple keys of one namespace at once",
		Long: `Reads multiple keys of one namespace at once.

Every argument is either a key or alias=key. The value of an aliased key is
printed under its alias. With --mandatory the command fails and lists every
missing key if at least one key does not exist.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := parseRefs(args)
			if err != nil {
				return err
			}

			if viper.GetBool("mandatory") {
				values, err := configuration.GetMultipleMandatory(refs, namespace())
				if err != nil {
					return err
				}
				for _, ref := range refs {
					fmt.Printf("%s=%s\n", ref.Name(), values[ref.Name()])
				}
				return nil
			}

			values, err := configuration.GetMultiple(refs, namespace())
			if err != nil {
				return err
			}
			for _, ref := range refs {
				if v := values[ref.Name()]; v != nil {
					fmt.Printf("%s=%s\n", ref.Name(), *v)
				} else {
					fmt.Printf("%s (not set)\n", ref.Name())
				}
			}
			return nil
		},
	}
	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Prints every stored key of every namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := configuration.LoadAll()
			if err != nil {
				return err
			}
			for _, line := range dumpLines(all) {
				fmt.Println(line)
			}
			return nil
		},
	}
)

func init() {
	mgetCmd.Flags().Bool("mandatory", false, "Fail if any of the keys does not exist")
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// parseRefs converts mget arguments (key or alias=key) to KeyRefs
func parseRefs(args []string) ([]dynconf.KeyRef, error) {
	refs := make([]dynconf.KeyRef, len(args))
	for i, arg := range args {
		alias, key, found := strings.Cut(arg, "=")
		switch {
		case !found:
			refs[i] = dynconf.Key(arg)
		case alias == "" || key == "":
			return nil, fmt.Errorf("invalid argument %q, expected alias=key", arg)
		default:
			refs[i] = dynconf.Alias(alias, key)
		}
	}
	return refs, nil
}

// dumpLines renders all values as key=value lines sorted by key
func dumpLines(all map[string]string) []string {
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + all[k]
	}
	return lines
}
