// Package main provides the IPv6 search plugin as an exec filescan plugin.
//
// filescan runs executables named *.plugin from its plugin directory, so the
// binary is installed under that suffix:
//
//	go build -o plugins/ipv6addr.plugin ./cmd/filescan-ipv6
package main

import (
	"fmt"
	"os"

	"github.com/smykla-skalski/filescan/pkg/ipv6search"
	"github.com/smykla-skalski/filescan/pkg/logger"
	"github.com/smykla-skalski/filescan/pkg/plugin"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log := logger.NewFromEnv(false, false)
	defer log.Close()

	if err := plugin.Serve(ipv6search.New(log), args, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	return 0
}
