package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/marvinlanhenke/go-object-cache/internal/cache"
	"github.com/marvinlanhenke/go-object-cache/internal/server"
	"github.com/urfave/cli/v3"
)

var errUsage = errors.New("wrong number of arguments")

// action is a subcommand body with the client, target cache and arguments resolved.
type action func(ctx context.Context, client *server.CacheManagerClient, name string, args []string, out io.Writer) error

func withClient(nargs int, fn action) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		args := cmd.Args().Slice()
		if len(args) != nargs {
			return fmt.Errorf("%w: %s %s", errUsage, cmd.Name, cmd.ArgsUsage)
		}

		client, err := server.Dial(cmd.String("addr"))
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
		defer cancel()

		return fn(ctx, client.CacheManagerClient, cmd.String("cache"), args, cmd.Root().Writer)
	}
}

func createCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "put",
			Usage:     "store a value",
			ArgsUsage: "<key> <value>",
			Action: withClient(2, func(ctx context.Context, c *server.CacheManagerClient, name string, args []string, _ io.Writer) error {
				return c.Put(ctx, name, args[0], args[1])
			}),
		},
		{
			Name:      "get",
			Usage:     "print a value",
			ArgsUsage: "<key>",
			Action: withClient(1, func(ctx context.Context, c *server.CacheManagerClient, name string, args []string, out io.Writer) error {
				value, ok, err := c.Get(ctx, name, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return cli.Exit(fmt.Sprintf("key %q not found", args[0]), 2)
				}
				_, err = fmt.Fprintln(out, value)
				return err
			}),
		},
		{
			Name:      "remove",
			Usage:     "remove a key",
			ArgsUsage: "<key>",
			Action: withClient(1, func(ctx context.Context, c *server.CacheManagerClient, name string, args []string, _ io.Writer) error {
				return c.Remove(ctx, name, args[0])
			}),
		},
		{
			Name:  "flush",
			Usage: "remove every entry",
			Action: withClient(0, func(ctx context.Context, c *server.CacheManagerClient, name string, _ []string, _ io.Writer) error {
				return c.Flush(ctx, name)
			}),
		},
		{
			Name:      "resize",
			Usage:     "set the max size and evict down to it",
			ArgsUsage: "<size>",
			Action: withClient(1, func(ctx context.Context, c *server.CacheManagerClient, name string, args []string, _ io.Writer) error {
				size, err := strconv.Atoi(args[0])
				if err != nil {
					return err
				}
				return c.Resize(ctx, name, size)
			}),
		},
		{
			Name:      "set-max-size",
			Usage:     "set the max size without evicting",
			ArgsUsage: "<size>",
			Action: withClient(1, func(ctx context.Context, c *server.CacheManagerClient, name string, args []string, _ io.Writer) error {
				size, err := strconv.Atoi(args[0])
				if err != nil {
					return err
				}
				return c.SetMaxSize(ctx, name, size)
			}),
		},
		{
			Name:  "capacity",
			Usage: "print the remaining capacity (-1 when unbounded)",
			Action: withClient(0, func(ctx context.Context, c *server.CacheManagerClient, name string, _ []string, out io.Writer) error {
				capacity, err := c.Capacity(ctx, name)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, capacity)
				return err
			}),
		},
		{
			Name:  "empty",
			Usage: "print whether the cache is empty",
			Action: withClient(0, func(ctx context.Context, c *server.CacheManagerClient, name string, _ []string, out io.Writer) error {
				empty, err := c.IsEmpty(ctx, name)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, empty)
				return err
			}),
		},
		{
			Name:  "dump",
			Usage: "print every entry",
			Action: withClient(0, func(ctx context.Context, c *server.CacheManagerClient, name string, _ []string, out io.Writer) error {
				m, err := c.ToMap(ctx, name)
				if err != nil {
					return err
				}
				return printEntries(out, m)
			}),
		},
		{
			Name:      "merge",
			Usage:     "copy the entries of another cache, keeping their recency",
			ArgsUsage: "<source>",
			Action: withClient(1, func(ctx context.Context, c *server.CacheManagerClient, name string, args []string, _ io.Writer) error {
				return c.Merge(ctx, name, args[0])
			}),
		},
		{
			Name:      "policy",
			Usage:     "change the eviction policy",
			ArgsUsage: "<most-recently-touched|least-recently-touched|random>",
			Action: withClient(1, func(ctx context.Context, c *server.CacheManagerClient, name string, args []string, _ io.Writer) error {
				policy, err := cache.ParsePolicy(args[0])
				if err != nil {
					return err
				}
				return c.SetPolicy(ctx, name, policy)
			}),
		},
		createSliceCommand(),
	}
}

func createSliceCommand() *cli.Command {
	return &cli.Command{
		Name:  "slice",
		Usage: "print the entries touched within a time window",
		Flags: []cli.Flag{
			&cli.TimestampFlag{
				Name:   "from",
				Usage:  "inclusive lower bound",
				Config: cli.TimestampConfig{Layouts: []string{time.RFC3339}},
			},
			&cli.TimestampFlag{
				Name:   "to",
				Usage:  "inclusive upper bound",
				Config: cli.TimestampConfig{Layouts: []string{time.RFC3339}},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			from, to := cmd.Timestamp("from"), cmd.Timestamp("to")
			return withClient(0, func(ctx context.Context, c *server.CacheManagerClient, name string, _ []string, out io.Writer) error {
				m, err := c.Slice(ctx, name, from, to)
				if err != nil {
					return err
				}
				return printEntries(out, m)
			})(ctx, cmd)
		},
	}
}

func printEntries(out io.Writer, m map[string]string) error {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if _, err := fmt.Fprintf(out, "%s\t%s\n", k, m[k]); err != nil {
			return err
		}
	}
	return nil
}
