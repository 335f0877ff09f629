// Command s3sentinel audits the configuration of S3 buckets in an AWS
// account and reports one finding per check per bucket.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := newDefaultApp()
	err := newRootCmdWithApp(a).ExecuteContext(ctx)
	stop()
	a.close()
	if err != nil {
		if msg := errorMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, "error:", msg)
		}
		os.Exit(exitCode(err))
	}
}
