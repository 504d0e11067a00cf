// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import "github.com/danielhkuo/foodgram/cmd"

func main() {
	cmd.Execute()
}
