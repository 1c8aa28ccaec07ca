package main

import "pulse-news/cmd"

func main() {
	cmd.Execute()
}
