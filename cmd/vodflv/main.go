// If you are AI: This is the main entrypoint for the vodflv server and its inspection commands.
// It handles configuration loading, server startup, graceful shutdown and offline probing.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"vodflv/internal/config"
	"vodflv/internal/core/seek"
	"vodflv/internal/logging"
	"vodflv/internal/server"
	"vodflv/internal/svc/media"
	"vodflv/internal/telemetry"
)

// version is overridden at link time.
var version = "dev"

// main is the entrypoint for the vodflv binary.
func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp builds the command tree writing command output to out.
func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "vodflv",
		Usage:   "serve FLV files with keyframe-accurate seeking",
		Version: version,
		Writer:  out,
		Commands: []*cli.Command{
			serveCommand(),
			probeCommand(),
			planCommand(),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP, WebSocket and API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "configs/vodflv.example.yaml",
				Usage:   "path to configuration file",
				EnvVars: []string{"VODFLV_CONFIG"},
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return serve(c.Context, cfg)
		},
	}
}

// serve runs the server until a signal arrives or a listener fails.
func serve(parent context.Context, cfg *config.Config) error {
	logger, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	shutdownTracing, err := telemetry.Init(parent, cfg.Telemetry)
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("flush traces")
		}
	}()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	srv := server.New(cfg, logger, version)
	shutdownHandler := server.NewShutdownHandler(srv, ctx, cfg.Server.ShutdownTimeout)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
		cancel()
	}()

	if err := shutdownHandler.Wait(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info().Msg("server shut down cleanly")
	return nil
}

var scanFlags = []cli.Flag{
	&cli.IntFlag{Name: "scan-bytes", Value: seek.DefaultMaxScanBytes, Usage: "bytes of the file prefix examined for metadata"},
	&cli.BoolFlag{Name: "json", Usage: "print JSON instead of text"},
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "print the keyframe index summary of a file",
		ArgsUsage: "<file.flv>",
		Flags:     scanFlags,
		Action: func(c *cli.Context) error {
			f, size, err := openArg(c)
			if err != nil {
				return err
			}
			defer f.Close()

			planner := seek.NewPlanner(seek.Options{MaxScanBytes: c.Int("scan-bytes"), MaxConcurrentScans: 1})
			info, err := planner.Probe(c.Context, f, size)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return writeJSON(c.App.Writer, info)
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "size\t%d\n", info.Size)
			fmt.Fprintf(tw, "scanned\t%d\n", info.ScanBytes)
			fmt.Fprintf(tw, "header\t%t\n", info.ValidHeader)
			fmt.Fprintf(tw, "metadata tag\t%d bytes\n", info.MetadataSize)
			fmt.Fprintf(tw, "video init\t%d bytes (codec %d, supported %t)\n", info.VideoInitSize, info.VideoCodec, info.VideoSupported)
			fmt.Fprintf(tw, "audio init\t%d bytes\n", info.AudioInitSize)
			fmt.Fprintf(tw, "duration\t%.3f (field present %t)\n", info.Duration, info.HasDurationField)
			if info.HasIndex {
				fmt.Fprintf(tw, "keyframes\t%d\n", info.Keyframes)
				fmt.Fprintf(tw, "first\t%.3fs @ %d (keyframe tag %t)\n", info.First.Time, int64(info.First.Position), info.FirstAligned)
				fmt.Fprintf(tw, "last\t%.3fs @ %d\n", info.Last.Time, int64(info.Last.Position))
			} else {
				fmt.Fprintf(tw, "keyframes\tnone (%s)\n", info.IndexError)
			}
			return tw.Flush()
		},
	}
}

func planCommand() *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{Name: "start", Usage: "start in seconds, or bytes with --bytes"},
		&cli.StringFlag{Name: "end", Usage: "end in seconds, or inclusive byte offset with --bytes"},
		&cli.BoolFlag{Name: "bytes", Usage: "interpret start and end as byte offsets"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write the assembled response to this file"},
	}, scanFlags...)

	return &cli.Command{
		Name:      "plan",
		Usage:     "print the response a seek request would produce",
		ArgsUsage: "<file.flv>",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			f, size, err := openArg(c)
			if err != nil {
				return err
			}
			defer f.Close()

			q := url.Values{}
			if c.IsSet("start") {
				q.Set("start", c.String("start"))
			}
			if c.IsSet("end") {
				q.Set("end", c.String("end"))
			}

			planner := seek.NewPlanner(seek.Options{MaxScanBytes: c.Int("scan-bytes"), MaxConcurrentScans: 1})
			var resp *seek.Response
			if c.Bool("bytes") {
				resp, err = planner.PlanBytes(c.Context, f, size, media.ParseByteRequest(q))
			} else {
				resp, err = planner.PlanTime(c.Context, f, size, media.ParseTimeRequest(q))
			}
			if err != nil {
				return err
			}

			if out := c.String("output"); out != "" {
				if err := writeResponse(c.Context, out, f, resp); err != nil {
					return err
				}
			}
			if c.Bool("json") {
				return writeJSON(c.App.Writer, resp)
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "mode\t%s\n", resp.Mode)
			fmt.Fprintf(tw, "seeked\t%t\n", resp.Seeked)
			if resp.Seeked {
				r := resp.Range
				fmt.Fprintf(tw, "start\tkeyframe %d at %.3fs, offset %d\n", r.StartIndex, r.StartTime, r.StartOffset)
				if r.ToEOF {
					fmt.Fprintf(tw, "end\tend of file (%d)\n", r.EndOffset)
				} else {
					fmt.Fprintf(tw, "end\tkeyframe %d at %.3fs, offset %d\n", r.EndIndex, r.EndTime, r.EndOffset)
				}
				fmt.Fprintf(tw, "duration\t%.3f of %.3f\n", r.Duration, r.Total)
			}
			for _, seg := range resp.Segments {
				if seg.Kind == seek.SegmentRange {
					fmt.Fprintf(tw, "segment\t%s [%d, %d)\n", seg.Kind, seg.Offset, seg.Offset+seg.Length)
					continue
				}
				fmt.Fprintf(tw, "segment\t%s %d bytes\n", seg.Kind, seg.Size())
			}
			for _, d := range resp.Degradations {
				fmt.Fprintf(tw, "degraded\t%s\n", d)
			}
			fmt.Fprintf(tw, "content length\t%d\n", resp.ContentLength)
			return tw.Flush()
		},
	}
}

// openArg opens the single file argument.
func openArg(c *cli.Context) (*os.File, int64, error) {
	if c.NArg() != 1 {
		return nil, 0, errors.New("expected exactly one file argument")
	}
	f, err := os.Open(c.Args().First())
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// writeResponse writes the assembled response bytes to path.
func writeResponse(ctx context.Context, path string, src io.ReaderAt, resp *seek.Response) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := media.WriteSegments(ctx, out, src, resp.Segments); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
