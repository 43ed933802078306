package main

import "github.com/salesinsight/salesinsight/cmd"

func main() {
	cmd.Execute()
}
