package main

import "npi-linker/cmd"

func main() {
	cmd.Execute()
}
