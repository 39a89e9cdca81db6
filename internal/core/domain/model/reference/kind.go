package reference

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Kind names the registry an entry belongs to.
type Kind string

const (
	Carrier Kind = "carrier"
	Zone    Kind = "zone"
	Route   Kind = "route"
	Group   Kind = "group"
)

func Kinds() []Kind {
	return []Kind{Carrier, Zone, Route, Group}
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k Kind) Validate() error {
	switch k {
	case Carrier, Zone, Route, Group:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("reference kind", fmt.Errorf("%q is not a known kind", string(k)))
	}
}

func (k Kind) String() string {
	return string(k)
}
