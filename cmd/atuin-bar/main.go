package main

import "github.com/tomatitito/atuin-bar/cmd/cli"

func main() {
	cli.Execute()
}
