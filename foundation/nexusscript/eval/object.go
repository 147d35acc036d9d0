// File: object.go
// Title: Script Objects
// Description: Classes that scripts can construct with "new": IP, Port
//              and Exploit.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-05
// Modified: 2026-03-05
//
// Change History:
// - 2026-03-05 v0.1.0: Initial implementation

package eval

import (
	"fmt"
	"strconv"
	"strings"
)

// Object is a constructed value with a class name
type Object interface {
	Value
	Class() string
}

// Constructor builds an object from evaluated arguments. Bad arguments
// yield an *Error value.
type Constructor func(args []Value) Value

// DefaultClasses returns the constructors available to every script
func DefaultClasses() map[string]Constructor {
	return map[string]Constructor{
		"IP":      NewIP,
		"Port":    NewPort,
		"Exploit": NewExploit,
	}
}

// IP is an IPv4 address
type IP struct {
	Octets [4]int
}

func (ip *IP) Type() ValueType { return ObjectType }
func (ip *IP) Class() string   { return "IP" }
func (ip *IP) Inspect() string {
	return fmt.Sprintf("%d.%d.%d.%d", ip.Octets[0], ip.Octets[1], ip.Octets[2], ip.Octets[3])
}

// NewIP accepts four octets or one dotted string
func NewIP(args []Value) Value {
	switch len(args) {
	case 1:
		if ip, ok := args[0].(*IP); ok {
			return &IP{Octets: ip.Octets}
		}
		s, ok := args[0].(*String)
		if !ok {
			return NewError("Error: IP: expected a dotted address string, got %s", args[0].Type())
		}
		ip, err := ParseIP(s.Value)
		if err != nil {
			return NewError("Error: IP: %v", err)
		}
		return ip
	case 4:
		ip := &IP{}
		for i, arg := range args {
			n, ok := ToInt(arg)
			if !ok || n < 0 || n > 255 {
				return NewError("Error: IP: octet %d must be a whole number between 0 and 255", i+1)
			}
			ip.Octets[i] = n
		}
		return ip
	default:
		return NewError("Error: IP: expected 4 octets or a dotted string, got %d arguments", len(args))
	}
}

// ParseIP parses a dotted IPv4 address
func ParseIP(s string) (*IP, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid address %q", s)
	}
	ip := &IP{}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return nil, fmt.Errorf("invalid address %q", s)
		}
		ip.Octets[i] = n
	}
	return ip, nil
}

// Port is a network service on a port
type Port struct {
	Number  int
	Service string
	Version string
}

func (p *Port) Type() ValueType { return ObjectType }
func (p *Port) Class() string   { return "Port" }
func (p *Port) Inspect() string {
	s := fmt.Sprintf("%d/%s", p.Number, p.Service)
	if p.Version != "" {
		s += " (" + p.Version + ")"
	}
	return s
}

// NewPort accepts (number, service) or (number, service, version)
func NewPort(args []Value) Value {
	if len(args) < 2 || len(args) > 3 {
		return NewError("Error: Port: expected (number, service[, version]), got %d arguments", len(args))
	}
	n, ok := ToInt(args[0])
	if !ok || n < 1 || n > 65535 {
		return NewError("Error: Port: port number must be between 1 and 65535")
	}
	p := &Port{Number: n, Service: ToString(args[1])}
	if len(args) == 3 {
		p.Version = ToString(args[2])
	}
	return p
}

// Exploit targets a service version
type Exploit struct {
	Name    string
	Service string
	Version string
}

func (x *Exploit) Type() ValueType { return ObjectType }
func (x *Exploit) Class() string   { return "Exploit" }
func (x *Exploit) Inspect() string {
	return fmt.Sprintf("exploit %s (%s %s)", x.Name, x.Service, x.Version)
}

// Targets reports whether the exploit applies to port
func (x *Exploit) Targets(p *Port) bool {
	return strings.EqualFold(x.Service, p.Service) && (x.Version == "" || x.Version == p.Version)
}

// NewExploit accepts (name, service, version)
func NewExploit(args []Value) Value {
	if len(args) != 3 {
		return NewError("Error: Exploit: expected (name, service, version), got %d arguments", len(args))
	}
	return &Exploit{Name: ToString(args[0]), Service: ToString(args[1]), Version: ToString(args[2])}
}
