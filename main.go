package main

import "github.com/zinc-sig/pyramid/cmd"

func main() {
	cmd.Execute()
}
