package main

import "github.com/boxart-tools/boxart/cmd"

func main() {
	cmd.Execute()
}
