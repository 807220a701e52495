package main

import "github.com/ethanolivertroy/depscan/cmd"

func main() {
	cmd.Execute()
}
