package main

import "github.com/sigyehq/sigye/cmd"

func main() {
	cmd.Execute()
}
