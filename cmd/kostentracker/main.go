package main

import "github.com/avkosten/kostentracker/internal/cli"

func main() {
	cli.Execute()
}
