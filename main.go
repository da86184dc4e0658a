package main

import "github.com/bugly-tools/symup/cmd"

func main() {
	cmd.Execute()
}
