package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Patch  bool
	Morph  bool
	Bind   bool
	Action bool
	WS     bool
}

var d *debug

func init() {
	d = &debug{}
	d.Patch = boolEnv("DJUST_DEBUG_PATCH")
	d.Morph = boolEnv("DJUST_DEBUG_MORPH")
	d.Bind = boolEnv("DJUST_DEBUG_BIND")
	d.Action = boolEnv("DJUST_DEBUG_ACTION")
	d.WS = boolEnv("DJUST_DEBUG_WS")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Patch() bool {
	return d.Patch
}
func Morph() bool {
	return d.Morph
}
func Bind() bool {
	return d.Bind
}
func Action() bool {
	return d.Action
}
func WS() bool {
	return d.WS
}
