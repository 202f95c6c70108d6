package main

import (
	"github.com/allmap-bio/allmap/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
