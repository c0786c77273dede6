package main

import "github.com/oshokin/version-stamper/cmd/version-stamper/cmd"

func main() {
	cmd.Execute()
}
