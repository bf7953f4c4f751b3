// Public domain.

package main

import "github.com/soniakeys/gband/internal/gprog"

func main() {
	gprog.Main()
}
