package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/suxatcode/mindtree/internal/app"
	"github.com/suxatcode/mindtree/layout"
	"github.com/suxatcode/mindtree/tree"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var ErrUnknownFormat = errors.New("unknown format")

func newRootCmd() *cobra.Command {
	var (
		verbose bool
		format  string
		output  string
		png     string
	)
	root := &cobra.Command{
		Use:          "gen-layout [file]",
		Short:        "Re-arrange a mind-map tree",
		Long:         `gen-layout reads a tree as a list of items, runs the force simulation on its visible nodes and writes the items with their new positions.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			conf := app.GetEnvConfig()
			if verbose {
				conf.LogLevel = "debug"
			}
			app.SetupLogging(conf, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
				if format == "" {
					format = formatOf(args[0])
				}
			}
			items, err := readItems(in, format)
			if err != nil {
				return err
			}
			conf, err := layout.GetEnvConfig()
			if err != nil {
				return err
			}
			t, items, stats, err := rearrangeItems(cmd, conf, items)
			if err != nil {
				return err
			}
			log.Info().Msgf("graph layout: {iterations: %d, time: %d ms}", stats.Iterations, stats.TotalTime.Milliseconds())
			if stats.Fallback {
				log.Warn().Msgf("graph layout: %d overlaps, %d stretched links, kept the arranged positions", stats.Overlaps, stats.StretchedLinks)
			}
			if png != "" {
				if err := layout.DrawFile(png, t, layout.DefaultDrawOptions); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
				if format == "" {
					format = formatOf(output)
				}
			}
			return writeItems(out, format, items)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().StringVarP(&format, "format", "f", "", "input and output format: json or yaml (default: from the file extension, else json)")
	root.Flags().StringVarP(&output, "output", "o", "", "write the items to this file instead of stdout")
	root.Flags().StringVar(&png, "png", "", "also render the re-arranged tree to this png file")
	root.AddCommand(newDBCmd())
	return root
}

func formatOf(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

func readItems(r io.Reader, format string) ([]tree.Item, error) {
	items := []tree.Item{}
	var err error
	switch format {
	case "", formatJSON:
		err = json.NewDecoder(r).Decode(&items)
	case formatYAML:
		err = yaml.NewDecoder(r).Decode(&items)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "'%s'", format)
	}
	return items, errors.Wrap(err, "failed to read items")
}

func writeItems(w io.Writer, format string, items []tree.Item) error {
	switch format {
	case "", formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(items)
	default:
		return errors.Wrapf(ErrUnknownFormat, "'%s'", format)
	}
}

func rearrangeItems(cmd *cobra.Command, conf layout.Config, items []tree.Item) (*tree.Tree, []tree.Item, layout.Stats, error) {
	conf = layout.ApplyConfig(conf)
	t, ids, err := tree.Build(
		items,
		tree.Geometry{X: 0, Y: 0, R: conf.RootRadius},
		tree.Geometry{R: conf.PlainRadius},
		tree.DefaultStyle,
	)
	if err != nil {
		return nil, nil, layout.Stats{}, err
	}
	sim := layout.NewSimulation(conf, t)
	stats, err := sim.Run(cmd.Context())
	if err != nil {
		return nil, nil, stats, err
	}
	if err := sim.Commit(t); err != nil {
		return nil, nil, stats, err
	}
	itemIDs := make(map[tree.NodeID]string, len(ids))
	for itemID, nodeID := range ids {
		itemIDs[nodeID] = itemID
	}
	return t, t.Items(func(id tree.NodeID) string { return itemIDs[id] }), stats, nil
}
