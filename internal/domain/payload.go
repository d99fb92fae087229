package domain

import (
	"fmt"
	"strings"
)

// PayloadType tags a scoring event.
type PayloadType int

const (
	PayloadMiss    PayloadType = -1
	PayloadThrough PayloadType = 0
	PayloadRight   PayloadType = 1
)

func (t PayloadType) String() string {
	switch t {
	case PayloadRight:
		return "right"
	case PayloadMiss:
		return "miss"
	case PayloadThrough:
		return "through"
	default:
		return fmt.Sprintf("PayloadType(%d)", int(t))
	}
}

// ParsePayloadType maps the wire name of an event kind.
func ParsePayloadType(s string) (PayloadType, error) {
	switch strings.ToLower(s) {
	case "right":
		return PayloadRight, nil
	case "miss":
		return PayloadMiss, nil
	case "through":
		return PayloadThrough, nil
	}
	return 0, fmt.Errorf("%w: unknown event %q", ErrInvalidPayload, s)
}

// Payload is a scoring event. Right and Miss always carry a player index;
// a Payload that would lack one cannot be constructed.
type Payload struct {
	typ   PayloadType
	index int
}

// Right is a correct answer by the player at index.
func Right(index int) Payload {
	return Payload{typ: PayloadRight, index: index}
}

// Miss is a wrong answer by the player at index.
func Miss(index int) Payload {
	return Payload{typ: PayloadMiss, index: index}
}

// Through passes the question without touching any player.
func Through() Payload {
	return Payload{typ: PayloadThrough}
}

// NewPayload builds a payload from decoded input where the index is optional.
// The index is ignored for Through.
func NewPayload(typ PayloadType, index *int) (Payload, error) {
	switch typ {
	case PayloadRight, PayloadMiss:
		if index == nil {
			return Payload{}, fmt.Errorf("%w: index must be provided for %s", ErrInvalidPayload, typ)
		}
		return Payload{typ: typ, index: *index}, nil
	case PayloadThrough:
		return Through(), nil
	}
	return Payload{}, fmt.Errorf("%w: unknown event %s", ErrInvalidPayload, typ)
}

func (p Payload) Type() PayloadType {
	return p.typ
}

// Index returns the player index; Through has none.
func (p Payload) Index() (int, error) {
	if p.typ == PayloadThrough {
		return 0, fmt.Errorf("%w: index is not available for through", ErrInvalidPayload)
	}
	return p.index, nil
}

func (p Payload) String() string {
	if p.typ == PayloadThrough {
		return p.typ.String()
	}
	return fmt.Sprintf("%s(%d)", p.typ, p.index)
}
