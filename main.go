package main

import (
	"github.com/tracereplay/replay-cli/cmd"
)

func main() {
	cmd.Execute()
}
