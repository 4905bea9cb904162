package main

import "github.com/hotelbooking/reservation-client/cmd/reservation/cmd"

func main() {
	cmd.Execute()
}
