package main

import "navjivan-backend/cmd"

func main() {
	cmd.Run()
}
