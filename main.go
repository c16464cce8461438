package main

import "github.com/inovacc/wavelink/cmd"

func main() {
	cmd.Execute()
}
