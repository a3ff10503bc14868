package main

import "github.com/netpulse/netpulse/pkg/cli"

func main() {
	cli.Run()
}
