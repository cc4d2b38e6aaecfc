package command

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

var validate = validator.New()

// Options is everything a single mddiff run needs, gathered from arguments,
// flags, the environment & the config file
type Options struct {
	NewPath string `validate:"required"`
	OldPath string `validate:"required"`

	Loose   bool
	Epsilon float64 `validate:"gte=0"`
	Input   string  `validate:"omitempty,oneof=json yaml yml msgpack mp mpk"`
	Output  string  `validate:"oneof=json yaml msgpack pretty delta"`
	Color   string  `validate:"oneof=auto always never"`
	Pointer string  `validate:"omitempty,startswith=/"`
	Stats   bool
}

// OptionsFromCommand reads options from a parsed command
func OptionsFromCommand(cmd *cli.Command) (Options, error) {
	if cmd.Args().Len() != 2 {
		return Options{}, errors.Errorf("expected 2 arguments (NEW OLD), got %d", cmd.Args().Len())
	}

	opts := Options{
		NewPath: cmd.Args().Get(0),
		OldPath: cmd.Args().Get(1),
		Loose:   cmd.Bool("loose"),
		Epsilon: cmd.Float("epsilon"),
		Input:   strings.ToLower(cmd.String("input")),
		Output:  strings.ToLower(cmd.String("output")),
		Color:   strings.ToLower(cmd.String("color")),
		Pointer: cmd.String("path"),
		Stats:   cmd.Bool("stats"),
	}
	return opts, opts.Validate()
}

// Validate checks option values, returning the first problem found
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return optionError(verrs[0])
		}
		return err
	}
	if o.NewPath == "-" && o.OldPath == "-" {
		return errors.New("only one of NEW and OLD can be read from stdin")
	}
	if (o.NewPath == "-" || o.OldPath == "-") && o.Input == "" {
		return errors.New("--input is required when reading from stdin")
	}
	return nil
}

func optionError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return errors.Errorf("%s is required", fe.Field())
	case "oneof":
		return errors.Errorf("invalid %s %q: must be one of %s", strings.ToLower(fe.Field()), fmt.Sprint(fe.Value()), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "startswith":
		return errors.Errorf("invalid path %q: JSON pointers start with %q", fmt.Sprint(fe.Value()), fe.Param())
	default:
		return errors.Errorf("invalid %s %v", strings.ToLower(fe.Field()), fe.Value())
	}
}
