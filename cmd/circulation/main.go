// Package main implements the circulation CLI, the command line front end of
// the library circulation system.
package main

func main() {
	Execute()
}
