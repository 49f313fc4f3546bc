// Command bench loads a batch of tracks from newline-delimited JSON
// files and reports load and query timings, mirroring the teacher's
// cobra/pflag/viper command layout (one root command, flags bound
// through viper so a config file or environment variable can supply the
// same values).
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/rotblauer/trackindex/collection"
	"github.com/rotblauer/trackindex/common"
	"github.com/rotblauer/trackindex/geo"
	"github.com/rotblauer/trackindex/params"
	"github.com/rotblauer/trackindex/route"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("bench failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Load track files and report build/query timings",
		RunE:  runBench,
	}
	flags := cmd.Flags()
	flags.StringSlice("input", nil, "NDJSON track file(s), one 'points' array of {lat,lon} per line")
	flags.Int("max-segments-per-node", params.DefaultConfig().MaxSegmentsPerNode, "quadtree leaf capacity before subdivision")
	flags.Int("zoom", 14, "slippy zoom level to query at")
	flags.Float64("bias", 1.0, "LOD bias, in [0.1, 10.0]")

	viper.SetEnvPrefix("TRACKINDEX")
	viper.AutomaticEnv()
	_ = viper.BindPFlags(flags)

	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".trackindex"))
	}
	viper.SetConfigName("bench")
	viper.SetConfigType("yaml")
	_ = viper.ReadInConfig() // absence of a config file is not an error

	return cmd
}

func runBench(cmd *cobra.Command, args []string) error {
	inputs := viper.GetStringSlice("input")
	if len(inputs) == 0 {
		return fmt.Errorf("bench: at least one --input file is required")
	}

	cfg := params.DefaultConfig()
	cfg.MaxSegmentsPerNode = viper.GetInt("max-segments-per-node")
	c := collection.New(cfg)

	var sources []collection.Source
	for _, path := range inputs {
		samples, err := readNDJSONTrack(path)
		if err != nil {
			return fmt.Errorf("bench: reading %s: %w", path, err)
		}
		sources = append(sources, collection.Source{Samples: samples})
	}

	outcome := c.Load(context.Background(), sources)
	slog.Info("load complete",
		"succeeded", humanize.Comma(int64(len(outcome.Succeeded))),
		"failed", humanize.Comma(int64(len(outcome.Failed))),
	)
	for _, f := range outcome.Failed {
		slog.Warn("input failed", "index", f.Index, "kind", f.Kind.String())
	}

	stats := c.Stats()
	slog.Info("collection stats",
		"routes", humanize.Comma(int64(stats.RouteCount)),
		"points", humanize.Comma(int64(stats.PointCount)),
		"total_length_km", stats.TotalLengthM/1000,
	)

	zoom := common.SlippyZoomLevelT(viper.GetInt("zoom"))
	bias := viper.GetFloat64("bias")
	result := c.Query(geo.EarthRect(), zoom, bias)
	slog.Info("full-extent query",
		"segments", humanize.Comma(int64(result.SegmentsCount)),
		"elapsed", result.Elapsed,
	)
	return nil
}

// readNDJSONTrack parses one file where each line is a JSON object with
// a "points" array of {"lat":..,"lon":..} samples, using tidwall/gjson
// for allocation-light field extraction rather than encoding/json's
// full struct unmarshal, matching the teacher's NDJSON ingestion style.
func readNDJSONTrack(path string) ([]route.LatLon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var samples []route.LatLon
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		gjson.GetBytes(line, "points").ForEach(func(_, p gjson.Result) bool {
			samples = append(samples, route.LatLon{
				Lat: p.Get("lat").Float(),
				Lon: p.Get("lon").Float(),
			})
			return true
		})
	}
	return samples, scanner.Err()
}
