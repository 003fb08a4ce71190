package profile

// Kind is one of the canonical power profile categories. Anything the
// control tool reports that is not canonical maps to Unknown.
type Kind int

const (
	Unknown Kind = iota
	Performance
	Balanced
	PowerSaver
)

// NumKinds is the size of a table indexed by Kind, Unknown included.
const NumKinds = 4

var kindNames = [NumKinds]string{
	Unknown:     "unknown",
	Performance: "performance",
	Balanced:    "balanced",
	PowerSaver:  "power-saver",
}

// Kinds returns the canonical kinds in display order.
func Kinds() []Kind {
	return []Kind{Performance, Balanced, PowerSaver}
}

// KindOf maps a profile name to its canonical kind.
func KindOf(p Profile) Kind {
	for _, k := range Kinds() {
		if kindNames[k] == string(p) {
			return k
		}
	}
	return Unknown
}

func (k Kind) String() string {
	if k < 0 || int(k) >= NumKinds {
		return kindNames[Unknown]
	}
	return kindNames[k]
}
