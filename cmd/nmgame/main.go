package main

import "github.com/mcoot/numbermaster/internal/cli"

func main() {
	cli.Execute()
}
