package main

import "github.com/float-ritual-stack/float-liner/cmd/liner/cmd"

func main() {
	cmd.Execute()
}
