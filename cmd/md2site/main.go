package main

import (
	"context"
	"fmt"
	"os"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// run executes one CLI invocation and returns its exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	root, c := newRootCmd(env)
	root.SetArgs(args)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	if !c.ran {
		err = fmt.Errorf("%w: %v", ErrUsage, err)
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, c.hintFor(err))
	return exitCodeFor(err)
}
