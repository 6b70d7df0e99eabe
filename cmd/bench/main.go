package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test    string `usage:"name of the test: ALL | REGISTER | CHURN"`
	Base    string `usage:"base URL"`
	N       int64  `usage:"number of services"`
	Workers int    `usage:"number of workers"`
}

var cleanups []func()

func main() {

	defer func() {
		fmt.Println("Cleaning up...")
		for _, cleanup := range cleanups {
			cleanup()
		}
	}()

	c := Config{
		Test:    "register",
		Base:    "",
		N:       100_000,
		Workers: 16,
	}
	goconfig.Read(&c)

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestRegister(c)
		TestChurn(c)
	case "REGISTER":
		TestRegister(c)
	case "CHURN":
		TestChurn(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
