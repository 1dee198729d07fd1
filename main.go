package main

import "edunova/cli"

func main() {
	cli.Execute()
}
