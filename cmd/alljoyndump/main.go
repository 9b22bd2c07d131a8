// Program alljoyndump listens for AllJoyn Message and Name Service
// traffic and logs each decoded packet's info-column text, to show how
// the transport package can be configured if needed.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/gojoyn/alljoyn/transport"
)

func main() {
	// By default an exit code is set to indicate a failure
	// since there are more failure scenarios to begin with.
	exitCode := 1
	defer func() { os.Exit(exitCode) }()

	iface := flag.String("iface", "", "network interface for multicast group membership")
	noMulticast := flag.Bool("no-multicast", false, "disable Name Service multicast group membership")
	readSize := flag.Int("read-size", transport.DefaultConnectionReadSize, "TCP connection read buffer size")
	flag.Parse()

	opts := []transport.Option{
		transport.WithConnectionReadSize(*readSize),
	}
	if *iface != "" {
		opts = append(opts, transport.WithInterface(*iface))
	}
	if *noMulticast {
		opts = append(opts, transport.WithoutMulticast())
	}

	msg, err := transport.ListenMessage(opts...)
	if err != nil {
		log.Print(err)
		return
	}
	defer func() {
		if err := msg.Close(); err != nil {
			log.Print(err)
		}
	}()

	ns, err := transport.ListenNameService(opts...)
	if err != nil {
		log.Print(err)
		return
	}
	defer func() {
		if err := ns.Close(); err != nil {
			log.Print(err)
		}
	}()

	go ns.Serve()
	msg.Serve()

	// msg.Serve only returns once the message listener's TCP socket is
	// closed, which this program never does on its own; reaching here
	// means it was closed out from under us.
	exitCode = 0
}
