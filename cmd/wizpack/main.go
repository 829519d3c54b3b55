package main

import "github.com/wizclaw/wizpack/cmd/wizpack/cmd"

func main() {
	cmd.Execute()
}
