package main

import "github.com/keurnel/logsim/cmd/logsim/cmd"

func main() {
	cmd.Execute()
}
