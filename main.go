package main

import "go-groove/cli"

func main() {
	cli.Execute()
}
