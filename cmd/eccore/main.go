// Command eccore is a small front end to the eccore packages: key
// generation, ECDSA signing, verification and recovery, and ECDH over the
// preset curves.  Keys, digests and signatures are read and written as hex.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
