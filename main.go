package main

import "bookmymovie-cli/cli"

func main() {
	cli.Execute()
}
