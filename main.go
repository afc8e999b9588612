package main

import "github.com/Tiliavir/leave-calendar/cmd"

func main() {
	cmd.Execute()
}
