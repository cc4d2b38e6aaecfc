package command

import (
	"context"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/qri-io/mddiff"
	"github.com/qri-io/mddiff/internal/log"
)

// ErrDifferences is returned by Run when the comparison reported at least one
// entry. It maps to exit code 1
var ErrDifferences = errors.New("documents differ")

// Streams are the standard streams of a run
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run loads both documents, compares them & writes the result to streams.Out.
// it returns ErrDifferences when something was reported
func Run(ctx context.Context, opts Options, streams Streams) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	newDoc, err := load(opts, opts.NewPath, streams.In)
	if err != nil {
		return errors.Wrap(err, "loading NEW")
	}
	oldDoc, err := load(opts, opts.OldPath, streams.In)
	if err != nil {
		return errors.Wrap(err, "loading OLD")
	}

	if opts.Pointer != "" {
		if newDoc, err = subtree(newDoc, opts.Pointer, true); err != nil {
			return errors.Wrap(err, "NEW")
		}
		if oldDoc, err = subtree(oldDoc, opts.Pointer, false); err != nil {
			return errors.Wrap(err, "OLD")
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	stats := &mddiff.Stats{}
	differ := mddiff.New(
		mddiff.OptionStrict(!opts.Loose),
		mddiff.OptionEpsilon(opts.Epsilon),
		mddiff.OptionSetStats(stats),
	)
	log.Debugf("comparing: loose=%t epsilon=%g", opts.Loose, opts.Epsilon)

	result, err := differ.Compare(newDoc, oldDoc)
	if err != nil {
		return err
	}
	log.Debugf("compared %d keys, %d differences", stats.Visited, stats.Differences())

	color := useColor(opts.Color, streams.Out)
	if err := write(streams.Out, opts.Output, result, oldDoc, color); err != nil {
		return err
	}

	if opts.Stats {
		if color {
			io.WriteString(streams.Err, mddiff.FormatPrettyStatsColor(stats))
		} else {
			io.WriteString(streams.Err, mddiff.FormatPrettyStats(stats))
		}
	}

	if result.Len() > 0 {
		return ErrDifferences
	}
	return nil
}

// load reads & decodes one side. "-" reads from stdin
func load(opts Options, path string, stdin io.Reader) (interface{}, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var format mddiff.Format
	if opts.Input != "" {
		format, err = mddiff.ParseFormat(opts.Input)
	} else {
		format, err = mddiff.FormatFromPath(path)
	}
	if err != nil {
		return nil, err
	}

	v, err := mddiff.Decode(format, data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	log.Debugf("loaded %s as %s: %d bytes", path, format, len(data))
	if log.TraceEnabled() {
		log.Tracef("%s", spew.Sdump(v))
	}
	return v, nil
}

// subtree resolves a JSON pointer. a missing subtree is an error on the
// required side & nil otherwise, so everything under NEW is reported
func subtree(v interface{}, ptr string, required bool) (interface{}, error) {
	doc, ok := v.(*mddiff.Document)
	if !ok {
		if required {
			return nil, errors.Errorf("can't resolve %q in a %s value", ptr, mddiff.KindOf(v))
		}
		return nil, nil
	}

	sub, ok := doc.Pointer(ptr)
	if !ok {
		if required {
			return nil, errors.Errorf("path %q not found", ptr)
		}
		log.Debugf("path %q not found in OLD", ptr)
		return nil, nil
	}
	return sub, nil
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func write(w io.Writer, output string, result *mddiff.Document, oldDoc interface{}, color bool) error {
	switch output {
	case "pretty":
		return mddiff.FormatPretty(w, result, color)
	case "delta":
		s, err := formatDelta(result, oldDoc, color)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	}

	format, err := mddiff.ParseFormat(output)
	if err != nil {
		return err
	}
	data, err := mddiff.Encode(format, result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
