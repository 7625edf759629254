package main

import "github.com/tanq16/ytune/cmd"

func main() {
	cmd.Execute()
}
