package main

import "github.com/xiaoyuanzhu-com/project-import/cmd"

func main() {
	cmd.Execute()
}
