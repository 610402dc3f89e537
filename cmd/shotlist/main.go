package main

import (
	"github.com/cmorrow/shotlist/cmd/shotlist/commands"
)

func main() {
	commands.Execute()
}
