package render

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/concatenator-dev/concatenator/internal/cli"
	"github.com/concatenator-dev/concatenator/internal/logging"
	"github.com/concatenator-dev/concatenator/internal/render/raster"
	"github.com/concatenator-dev/concatenator/internal/runtime"
	"github.com/concatenator-dev/concatenator/internal/stepbar"
	"github.com/concatenator-dev/concatenator/internal/ui"
)

// DefaultOutputFile is written when --output is not given.
const DefaultOutputFile = "concatenator.png"

// Options holds the flags of the render command.
type Options struct {
	Output string
	Width  int
	Height int
	Active string
	Status string
	At     time.Duration
	Frames int
}

// Frame describes one written image.
type Frame struct {
	Path   string
	Width  int
	Height int
	Size   int64
}

// New creates the render sub-command for the CLI.
func New() *cobra.Command {
	renderCommand := &cobra.Command{
		Use:   "render",
		Short: "Render the step bar to PNG",
		Long: `Render the step bar to a PNG image using the definition's fonts, colours and pixel layout.

With --frames N, N images covering one animation period are written as
<output>-000.png, <output>-001.png and so on.`,
		Example: `
# Render the first step to ./concatenator.png at its natural size
concatenator render

# Render the failed export step 640 pixels wide
concatenator render --active export --status failed --width 640 -o failed.png

# Write 24 frames of the ongoing animation
concatenator render --active alignment --status ongoing --frames 24 -o frames/align.png
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts := optionsFromFlags(cmd)
			return opts.Validate()
		},
		RunE: runRender,
	}

	renderCommand.Flags().StringP("output", "o", DefaultOutputFile, "The output file path.")
	renderCommand.Flags().Int("width", 0, "Image width in pixels (default: the bar's minimum width)")
	renderCommand.Flags().Int("height", 0, "Image height in pixels (default: the bar's minimum height)")
	renderCommand.Flags().StringP("active", "a", "0", "Key or zero-based index of the current step (-1 for none)")
	renderCommand.Flags().StringP("status", "s", "", "Status of the current step (active|ongoing|failed)")
	renderCommand.Flags().Duration("at", 0, "Animation time of the first frame")
	renderCommand.Flags().Int("frames", 1, "Number of frames spread over one animation period")

	return renderCommand
}

func optionsFromFlags(cmd *cobra.Command) Options {
	var opts Options
	opts.Output, _ = cmd.Flags().GetString("output")
	opts.Width, _ = cmd.Flags().GetInt("width")
	opts.Height, _ = cmd.Flags().GetInt("height")
	opts.Active, _ = cmd.Flags().GetString("active")
	opts.Status, _ = cmd.Flags().GetString("status")
	opts.At, _ = cmd.Flags().GetDuration("at")
	opts.Frames, _ = cmd.Flags().GetInt("frames")
	return opts
}

// Validate checks the flag values.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Output) == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	if ext := strings.TrimPrefix(filepath.Ext(o.Output), "."); !strings.EqualFold(ext, cli.OutputFormatPNG) {
		return fmt.Errorf("invalid output %q: only .%s files can be written", o.Output, cli.OutputFormatPNG)
	}
	if !runtime.ValidateImageSize(o.Width) {
		return fmt.Errorf("invalid width %d: must be between 0 and %d", o.Width, runtime.MaxImageSide)
	}
	if !runtime.ValidateImageSize(o.Height) {
		return fmt.Errorf("invalid height %d: must be between 0 and %d", o.Height, runtime.MaxImageSide)
	}
	if !runtime.ValidateFrames(o.Frames) {
		return fmt.Errorf("invalid frame count %d: must be between 1 and %d", o.Frames, runtime.MaxFrames)
	}
	return nil
}

// FramePath returns the file of frame i out of frames. A single frame is
// written to output itself.
func FramePath(output string, i, frames int) string {
	if frames <= 1 {
		return output
	}
	ext := filepath.Ext(output)
	base := strings.TrimSuffix(output, ext)
	digits := max(len(strconv.Itoa(frames-1)), 3)
	return fmt.Sprintf("%s-%0*d%s", base, digits, i, ext)
}

// FrameTime returns the animation time of frame i.
func FrameTime(at, period time.Duration, i, frames int) time.Time {
	offset := at
	if frames > 1 {
		offset += time.Duration(int64(period) * int64(i) / int64(frames))
	}
	return time.Unix(0, 0).Add(offset)
}

func runRender(cmd *cobra.Command, args []string) error {
	logger := logging.GetLogger(cmd)
	obs := logging.GetObservableLogger(cmd)
	opts := optionsFromFlags(cmd)

	rt, err := cli.GetRuntime(cmd.Context())
	if err != nil {
		return err
	}

	var written []Frame
	action := func(ctx context.Context) error {
		frames, renderErr := Render(ctx, rt, opts, func(f Frame) {
			obs.Metric(ctx, logging.MetricFramesRendered, 1, nil)
			logger.Debug("Frame written", "file", f.Path, "size", f.Size)
		})
		written = frames
		return renderErr
	}

	if opts.Frames > 1 && ui.IsTerminal() {
		err = spinner.New().
			Title(fmt.Sprintf("Rendering %d frames...", opts.Frames)).
			Context(cmd.Context()).
			ActionWithErr(action).
			Run()
	} else {
		err = action(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	var total int64
	for _, f := range written {
		total += f.Size
		if len(written) == 1 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %dx%d  %s\n", f.Path, f.Width, f.Height, humanize.Bytes(uint64(f.Size)))
		}
	}
	if len(written) > 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d frames  %s .. %s  %s\n", len(written), written[0].Path, written[len(written)-1].Path, humanize.Bytes(uint64(total)))
	}
	logger.Info("Render completed", "file", opts.Output, "frames", len(written), "size", humanize.Bytes(uint64(total)))
	return nil
}

// Render writes the frames described by opts and returns them in order.
// onFrame, if set, is called after each frame is written.
func Render(ctx context.Context, rt runtime.RuntimeProvider, opts Options, onFrame func(Frame)) ([]Frame, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	m, err := rt.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	fonts, err := rt.Fonts(ctx)
	if err != nil {
		return nil, err
	}
	background, err := m.Background()
	if err != nil {
		return nil, err
	}

	var now time.Time
	b, err := rt.RasterBar(ctx, stepbar.WithClock(func() time.Time { return now }))
	if err != nil {
		return nil, err
	}
	if err := cli.ActivateStep(b, opts.Active); err != nil {
		return nil, err
	}
	if err := cli.ApplyStatus(b, opts.Status); err != nil {
		return nil, err
	}

	width, height := opts.Width, opts.Height
	hint := b.SizeHint()
	if width == 0 {
		width = int(math.Ceil(hint.Width))
	}
	if height == 0 {
		height = int(math.Ceil(hint.Height))
	}

	if dir := filepath.Dir(opts.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	frames := make([]Frame, 0, opts.Frames)
	for i := range opts.Frames {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		now = FrameTime(opts.At, b.Geometry().AnimationPeriod, i, opts.Frames)
		path := FramePath(opts.Output, i, opts.Frames)

		if err := raster.Render(b, width, height, fonts, background).SavePNG(path); err != nil {
			return frames, fmt.Errorf("failed to write %s: %w", path, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return frames, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		f := Frame{Path: path, Width: width, Height: height, Size: info.Size()}
		frames = append(frames, f)
		if onFrame != nil {
			onFrame(f)
		}
	}
	return frames, nil
}
