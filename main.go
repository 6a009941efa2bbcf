package main

import "propcalc/cmd"

func main() {
	cmd.Execute()
}
