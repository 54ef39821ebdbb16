package models

// Protocol is one of the fixed set of tunnelling transports a trial
// subscription gets a connection for.
type Protocol int

const (
	VlessTcpReality Protocol = iota
	VlessGrpcReality
	VlessXhttpReality
	Hysteria2
)

// Protocols is the ordered set provisioned for every trial.
var Protocols = []Protocol{
	VlessTcpReality,
	VlessGrpcReality,
	VlessXhttpReality,
	Hysteria2,
}

func (p Protocol) String() string {
	switch p {
	case VlessTcpReality:
		return "VlessTcpReality"
	case VlessGrpcReality:
		return "VlessGrpcReality"
	case VlessXhttpReality:
		return "VlessXhttpReality"
	case Hysteria2:
		return "Hysteria2"
	}
	return "Unknown"
}

// RequiresToken reports whether connection creation for this protocol
// needs a freshly generated token. Only Hysteria2 does.
func (p Protocol) RequiresToken() bool {
	return p == Hysteria2
}
