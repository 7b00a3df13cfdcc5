package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vitistack/dnsmasq-hosts/internal/apiclient"
	"github.com/vitistack/dnsmasq-hosts/pkg/bslog"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest/request/client"
)

const defaultURL = "http://127.0.0.1:3000"

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	var (
		url     string
		timeout time.Duration
		verbose bool
	)
	if env := os.Getenv("DNSMASQ_HOSTS_URL"); env != "" {
		url = env
	} else {
		url = defaultURL
	}

	var api *apiclient.Client
	root := &cobra.Command{
		Use:           "hostsctl",
		Short:         "Manage dnsmasq host mappings through a dnsmasq-hosts server",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			bslog.SetDefault(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level, ReplaceAttr: bslog.BaseReplaceAttr}))

			logger := bslog.With(slog.String("component", "hostsctl"))
			httpClient, err := client.NewClient(timeout, client.WithRequestLogging(logger))
			if err != nil {
				return err
			}
			listClient, err := client.NewClient(timeout,
				client.WithRequestLogging(logger),
				client.WithRetry(2, client.RetryClientWithBackoff(200*time.Millisecond)),
			)
			if err != nil {
				return err
			}
			api = apiclient.New(url, httpClient, apiclient.WithListClient(listClient))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&url, "url", "u", url, "server URL (env DNSMASQ_HOSTS_URL)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List host mappings",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				entries, err := api.List(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tIP\tHOSTNAME")
				for _, e := range entries {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", e.ID, e.IP, e.Hostname)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "add <ip> <hostname>",
			Short: "Append a host mapping",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printMessage(out)(api.Add(cmd.Context(), args[0], args[1]))
			},
		},
		&cobra.Command{
			Use:     "rm <id>",
			Aliases: []string{"delete"},
			Short:   "Delete the mapping at id",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return printMessage(out)(api.Delete(cmd.Context(), id))
			},
		},
		&cobra.Command{
			Use:   "edit <id> <ip> <hostname>",
			Short: "Replace the mapping at id",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return printMessage(out)(api.Edit(cmd.Context(), id, args[1], args[2]))
			},
		},
	)

	root.SetContext(context.Background())
	return root
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("id must be an integer: %q", arg)
	}
	return id, nil
}

func printMessage(out io.Writer) func(string, error) error {
	return func(msg string, err error) error {
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, msg)
		return err
	}
}
