// The main package for the outreach executable.
package main

import "github.com/magicplate/outreach/cmd"

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
