package main

import "github.com/upperspacecase/habitspace/cmd/solo/root"

func main() {
	root.Execute()
}
