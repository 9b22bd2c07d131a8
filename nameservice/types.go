package nameservice

// AllJoynPort is the UDP/TCP port the Name Service Protocol listens on.
const AllJoynPort = 9956

// ProtocolLabel is the diagnostic protocol name used in info text,
// distinguishing this decoder's output from the Message Protocol's
// "ALLJOYN" label.
const ProtocolLabel = "ALLJOYN-NS"

// MaxBusNameLength bounds a single length-prefixed bus name; the format
// stores the length in one byte so 255 is the hard ceiling, but AllJoyn
// daemons never advertise names anywhere near that long.
const MaxBusNameLength = 255

// whoHasFlagsV0 are the WHO-HAS record flag bits defined for message
// version 0. Version 1 reserves this byte; its bits are decoded as zero
// and never cause a failure regardless of wire value.
const (
	whoHasV0FlagT byte = 0x08
	whoHasV0FlagU byte = 0x04
	whoHasV0FlagS byte = 0x02
	whoHasV0FlagF byte = 0x01
)

// isAtV0Flags are the IS-AT record flag bits for message version 0.
const (
	isAtV0FlagG byte = 0x20
	isAtV0FlagC byte = 0x10
	isAtV0FlagT byte = 0x08
	isAtV0FlagU byte = 0x04
	isAtV0FlagS byte = 0x02
	isAtV0FlagF byte = 0x01
)

// isAtV1Flags are the IS-AT record flag bits for message version 1.
const (
	isAtV1FlagG  byte = 0x20
	isAtV1FlagC  byte = 0x10
	isAtV1FlagR4 byte = 0x08
	isAtV1FlagU4 byte = 0x04
	isAtV1FlagR6 byte = 0x02
	isAtV1FlagU6 byte = 0x01
)

// TransportMask bits carried by an IS-AT v1 record.
type TransportMask uint16

// Transport bits, per the AllJoyn Name Service v1 wire format.
const (
	TransportLocal     TransportMask = 0x0001
	TransportBluetooth TransportMask = 0x0002
	TransportTCP       TransportMask = 0x0004
	TransportWWAN      TransportMask = 0x0008
	TransportLAN       TransportMask = 0x0010
	TransportICE       TransportMask = 0x0020
	TransportWFD       TransportMask = 0x0080
)

var transportNames = []struct {
	bit  TransportMask
	name string
}{
	{TransportLocal, "LOCAL"},
	{TransportBluetooth, "BLUETOOTH"},
	{TransportTCP, "TCP"},
	{TransportWWAN, "WWAN"},
	{TransportLAN, "LAN"},
	{TransportICE, "ICE"},
	{TransportWFD, "WFD"},
}

// String renders the set bits of a TransportMask as a "|"-joined list.
func (m TransportMask) String() string {
	if m == 0 {
		return ""
	}
	s := ""
	for _, t := range transportNames {
		if m&t.bit == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += t.name
	}
	return s
}
