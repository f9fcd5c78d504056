package main

import "github.com/KaramelBytes/survival-cli/cmd"

func main() {
	cmd.Execute()
}
