package main

import "github.com/CookiePawn/lawtracker/cmd"

func main() {
	cmd.Execute()
}
