package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/qri-io/mddiff/internal/command"
	"github.com/qri-io/mddiff/internal/config"
	"github.com/qri-io/mddiff/internal/log"
)

func main() {
	os.Exit(realMain(os.Args))
}

// realMain runs the app, returning the exit code: 0 when the documents match,
// 1 when they differ & 2 on error
func realMain(args []string) int {
	log.InitLogger()
	log.Debugf("args captured: args=%v", args)

	ctx := context.Background()
	app := command.InitApp(config.File())

	err := app.Run(ctx, args)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, command.ErrDifferences):
		return 1
	default:
		fmt.Fprintln(os.Stderr, "mddiff:", err)
		log.Debugf("app run err: err=%+v", err)
		return 2
	}
}
