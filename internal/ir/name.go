package ir

import "fmt"

// MaxNameLength is the maximum number of characters in an account name.
const MaxNameLength = 12

// Name identifies an account.
//
// Valid names are 1-12 characters from [a-z1-5.] and never end with a dot.
type Name string

// ParseName validates s and returns it as a Name.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if err := n.Validate(); err != nil {
		return "", err
	}
	return n, nil
}

// MustName is ParseName for literals; it panics on an invalid name.
func MustName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Validate returns an error describing why n is not a valid account name.
func (n Name) Validate() error {
	if n == "" {
		return fmt.Errorf("account name is empty")
	}
	if len(n) > MaxNameLength {
		return fmt.Errorf("account name %q is longer than %d characters", string(n), MaxNameLength)
	}
	for i := 0; i < len(n); i++ {
		c := n[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '1' && c <= '5':
		case c == '.':
		default:
			return fmt.Errorf("account name %q contains invalid character %q", string(n), c)
		}
	}
	if n[len(n)-1] == '.' {
		return fmt.Errorf("account name %q ends with a dot", string(n))
	}
	return nil
}

// Valid reports whether n is a well-formed account name.
func (n Name) Valid() bool {
	return n.Validate() == nil
}

func (n Name) String() string {
	return string(n)
}
