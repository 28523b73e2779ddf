package main

import "attendance/internal/cli"

func main() {
	cli.Execute()
}
