package selector

import (
	"strings"

	"github.com/pkg/errors"
)

// Policy identifies a job selection rule.
type Policy int

const (
	PolicyFCFS Policy = iota
	PolicySRPT
	PolicyRMLF
)

var policyNames = map[Policy]string{
	PolicyFCFS: "fcfs",
	PolicySRPT: "srpt",
	PolicyRMLF: "rmlf",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return "unknown"
}

func (p Policy) Valid() bool {
	_, ok := policyNames[p]
	return ok
}

func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return p, nil
		}
	}
	return 0, errors.Errorf("unknown policy %q", s)
}

func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, errors.Errorf("unknown policy %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
