package main

import "github.com/brodo/bundlefmt/cmd"

func main() {
	cmd.Execute()
}
