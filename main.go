package main

import "github.com/cafesim-io/cafedatasim/cmd"

func main() {
	cmd.Execute()
}
