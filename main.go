package main

import "github.com/NiranjanKJ304/Exxpense-Tracker/cmd"

func main() {
	cmd.Execute()
}
