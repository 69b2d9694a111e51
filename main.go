package main

import "github.com/fbz-tec/csvstream/cmd"

func main() {
	cmd.Execute()
}
