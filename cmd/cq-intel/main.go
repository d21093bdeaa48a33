package main

import "github.com/phantomworx/cq-intel/internal/cli"

func main() {
	cli.Execute()
}
