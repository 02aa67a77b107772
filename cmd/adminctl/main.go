package main

import "github.com/jpk1234556/machacoshostels/cmd/adminctl/cmd"

func main() {
	cmd.Execute()
}
