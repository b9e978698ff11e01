package main

import "github.com/SarahRo/asimov-contact/cmd"

func main() {
	cmd.Execute()
}
