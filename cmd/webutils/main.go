package main

import "github.com/pfrederiksen/webutils/internal/cli"

func main() {
	cli.Execute()
}
