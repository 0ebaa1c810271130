// Package main provides the ytdash CLI, a terminal front end to the same
// analytics the HTTP service exposes.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yt-insights/ytdash/internal/api"
	"github.com/yt-insights/ytdash/internal/config"
	"github.com/yt-insights/ytdash/internal/logging"
	"github.com/yt-insights/ytdash/internal/models"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the ytdash CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ytdash",
		Short:        "YouTube channel analytics from the terminal",
		Long:         "ytdash resolves YouTube channels and prints summaries, recent uploads, posting cadence and competitor comparisons as JSON.",
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.SetVersionTemplate("ytdash version {{.Version}}\n")

	rootCmd.AddCommand(newChannelCmd())
	rootCmd.AddCommand(newVideosCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newCadenceCmd())
	rootCmd.AddCommand(newCompareCmd())

	return rootCmd
}

// newClient builds a YouTube client from the environment. Logs go to stderr
// so stdout stays valid JSON.
func newClient(cmd *cobra.Command) (*api.YouTubeClient, error) {
	cfg, _, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, "ytdash-cli")
	return api.NewYouTubeClient(cmd.Context(), cfg.YouTubeAPIKey,
		api.WithBaseURL(cfg.YouTubeBaseURL),
		api.WithTimeout(cfg.UpstreamTimeout),
		api.WithCompetitorConcurrency(cfg.CompetitorConcurrency),
		api.WithLogger(logger),
	)
}

// input treats the argument as a channel ID when it has the canonical
// shape, otherwise as a URL.
func input(ref string) models.ChannelInput {
	if api.IsChannelID(ref) {
		return models.ChannelInput{ChannelID: ref}
	}
	return models.ChannelInput{URL: ref}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func newChannelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channel <url|channelId>",
		Short: "Show channel details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			channel, err := client.GetChannel(cmd.Context(), input(args[0]))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), channel)
		},
	}
}

func newVideosCmd() *cobra.Command {
	var maxResults, days int

	cmd := &cobra.Command{
		Use:   "videos <url|channelId>",
		Short: "List recent uploads with statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			videos, err := client.GetRecentVideos(cmd.Context(), input(args[0]), maxResults, days)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), videos)
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", api.DefaultRecentMaxResults, "maximum number of uploads (1-50)")
	cmd.Flags().IntVar(&days, "days", api.DefaultRecentDays, "look-back window in days")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var maxResults, days int

	cmd := &cobra.Command{
		Use:   "summary <url|channelId>",
		Short: "Show channel details, recent uploads and aggregates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			report, err := client.GetChannelSummary(cmd.Context(), input(args[0]), maxResults, days)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", api.DefaultRecentMaxResults, "maximum number of uploads (1-50)")
	cmd.Flags().IntVar(&days, "days", api.DefaultRecentDays, "look-back window in days")
	return cmd
}

func newCadenceCmd() *cobra.Command {
	var limit, minCount int

	cmd := &cobra.Command{
		Use:   "cadence <url|channelId>",
		Short: "Show the day/hour posting grid and best slots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			report, err := client.GetCadence(cmd.Context(), input(args[0]), limit, minCount)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", api.DefaultCadenceLimit, "number of uploads to sample (1-200)")
	cmd.Flags().IntVar(&minCount, "min-count", api.DefaultCadenceMinCount, "minimum uploads for a slot to be ranked")
	return cmd
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <ref> [ref...]",
		Short: "Compare channels over their last 10 uploads",
		Long:  "Compare channels over their last 10 uploads. Channels that cannot be resolved are printed as null.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			rows := client.CompareChannels(cmd.Context(), args)
			return printJSON(cmd.OutOrStdout(), map[string]any{"rows": rows})
		},
	}
}
