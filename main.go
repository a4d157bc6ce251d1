package main

import "github.com/iksnae/wxmsg/cmd"

func main() {
	cmd.Execute()
}
