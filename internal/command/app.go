package command

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/qri-io/mddiff/internal/config"
	"github.com/qri-io/mddiff/internal/log"
)

// InitApp builds the mddiff command. cfgFile is the YAML file flags fall
// back to, it's ignored when it doesn't exist
func InitApp(cfgFile string) *cli.Command {
	if !config.Exists(cfgFile) {
		log.Debugf("no config file at %q", cfgFile)
		cfgFile = ""
	}

	return &cli.Command{
		Name:      "mddiff",
		Usage:     "report what NEW adds to or changes from OLD",
		ArgsUsage: "NEW OLD",
		Description: "mddiff compares two JSON, YAML or MessagePack documents and prints the\n" +
			"entries of NEW that are missing from, or different in, OLD. Keys only OLD\n" +
			"has are never reported. Either side can be read from stdin with \"-\".\n\n" +
			"Exit status is 0 when nothing differs, 1 when something does & 2 on error.",
		Flags: NewFlags(cfgFile),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := OptionsFromCommand(cmd)
			if err != nil {
				return err
			}
			log.Debugf("options: %+v", opts)

			streams := Streams{In: cmd.Reader, Out: cmd.Writer, Err: cmd.ErrWriter}
			if streams.In == nil {
				streams.In = os.Stdin
			}
			if streams.Out == nil {
				streams.Out = os.Stdout
			}
			if streams.Err == nil {
				streams.Err = os.Stderr
			}
			return Run(ctx, opts, streams)
		},
	}
}
