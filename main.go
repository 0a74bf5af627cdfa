package main

import (
	"grazbib/cmd"
)

var execute = cmd.Execute

func main() {
	execute()
}
