package main

import "github.com/grovetools/tmuxession/cmd"

func main() {
	cmd.Main()
}
