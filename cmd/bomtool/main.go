package main

import "github.com/OpenTraceLab/OpenTraceBOM/cmd/bomtool/cmd"

func main() {
	cmd.Execute()
}
