package main

import "github.com/oliver-reborn/ITG-Commute-Time/cmd"

func main() {
	cmd.Execute()
}
