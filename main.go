package main

import "github.com/msomdec/eventhub/internal/cli"

func main() {
	cli.Execute()
}
