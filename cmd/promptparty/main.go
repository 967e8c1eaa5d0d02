package main

import "promptparty/internal/cli"

func main() {
	cli.Execute()
}
