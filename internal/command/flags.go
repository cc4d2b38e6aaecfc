package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/qri-io/mddiff"
)

// NewFlags constructs the mddiff flags. Flags that make sense as defaults
// also read from the environment and, when cfgFile is set, from the config
// file
func NewFlags(cfgFile string) []cli.Flag {
	loose := &cli.BoolFlag{
		Name:    "loose",
		Aliases: []string{"l"},
		Usage:   "compare scalars after numeric-aware coercion, eg: 1714 equals \"1714\"",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("MDDIFF_LOOSE"),
		),
	}

	output := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format: json, yaml, msgpack, pretty or delta",
		Value:   "json",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("MDDIFF_OUTPUT"),
		),
	}

	color := &cli.StringFlag{
		Name:  "color",
		Usage: "colorize pretty & delta output: auto, always or never",
		Value: "auto",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("MDDIFF_COLOR"),
		),
	}

	epsilon := &cli.FloatFlag{
		Name:  "epsilon",
		Usage: "tolerance for strict float comparison",
		Value: mddiff.Epsilon,
	}

	if cfgFile != "" {
		loose.Sources.Chain = append(loose.Sources.Chain, configSource(cfgFile, loose.Name))
		output.Sources.Chain = append(output.Sources.Chain, configSource(cfgFile, output.Name))
		color.Sources.Chain = append(color.Sources.Chain, configSource(cfgFile, color.Name))
		epsilon.Sources.Chain = append(epsilon.Sources.Chain, configSource(cfgFile, epsilon.Name))
	}

	return []cli.Flag{
		loose,
		output,
		color,
		epsilon,
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "input format: json, yaml or msgpack. detected from file extensions when unset, required for stdin",
		},
		&cli.StringFlag{
			Name:    "path",
			Aliases: []string{"p"},
			Usage:   "compare the subtrees at this JSON pointer, eg: /metadata/labels",
		},
		&cli.BoolFlag{
			Name:    "stats",
			Aliases: []string{"s"},
			Usage:   "print comparison stats to stderr",
		},
	}
}

func configSource(path, key string) cli.ValueSource {
	return yaml.YAML(key, altsrc.StringSourcer(path))
}
