// Command screenctl runs the resume screening pipeline on local files.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
