package main

import "github.com/chriserin/gk/cmd"

func main() {
	cmd.Execute()
}
