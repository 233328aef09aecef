// Package utils provides common CLI helpers shared by commands.
package utils

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/urfave/cli/v2"
)

var (
	// TopWaitGroup is the top wait group of all goroutines needing cleanup
	TopWaitGroup = new(sync.WaitGroup)

	cleanupOnce sync.Once
	cleanuping  bool
	exitCh      = make(chan struct{})

	// LicenseCommand license command
	LicenseCommand = &cli.Command{
		Name:   "license",
		Usage:  "Display license information",
		Action: license,
	}

	// VersionCommand version command
	VersionCommand = &cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print version numbers",
		Action:  version,
	}
)

// NewApp creates an app with sane defaults.
func NewApp(clientIdentifier, gitCommit, gitDate, usage string) *cli.App {
	app := cli.NewApp()
	app.Name = clientIdentifier
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.Usage = usage
	return app
}

func license(_ *cli.Context) error {
	fmt.Println("CrossChain-Wallet is released under the GNU General Public License v3.0.")
	return nil
}

func version(ctx *cli.Context) error {
	fmt.Println(ctx.App.Name)
	fmt.Println("Version:", params.VersionWithMeta)
	fmt.Println("Git Commit:", params.GitCommit)
	fmt.Println("Git Date:", params.GitDate)
	return nil
}

// IsCleanuping is cleanuping
func IsCleanuping() bool {
	return cleanuping
}

// WaitAndCleanup wait for a signal then run cleanup
func WaitAndCleanup(doCleanup func()) {
	defer TopWaitGroup.Done()
	cleanupOnce.Do(func() {
		go func() {
			signalChan := make(chan os.Signal, 1)
			signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
			sig := <-signalChan
			log.Info("receive signal to exit", "signal", sig)
			cleanuping = true
			close(exitCh)
		}()
	})
	<-exitCh
	doCleanup()
}
