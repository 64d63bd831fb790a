package main

import (
	// Profiles name IANA zones; embed the database so lookups work on
	// hosts without zoneinfo.
	_ "time/tzdata"

	"github.com/papapumpkin/skyview/cmd"
)

func main() {
	cmd.Execute()
}
