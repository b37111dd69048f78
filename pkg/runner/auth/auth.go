// Package auth unlocks and locks the report journal for a login session.
package auth

import (
	"context"
	"errors"

	"tableflip.dev/dailyreport/pkg/gate"
	"tableflip.dev/dailyreport/pkg/printers"
	"tableflip.dev/dailyreport/pkg/session"
)

// Unlock checks one password attempt and records success in the session.
type Unlock struct {
	Gate     *gate.Gate
	Session  *session.Session
	Password func() (string, error)

	Printer *printers.PrettyPrint
}

func (n *Unlock) Do(ctx context.Context) error {
	if n.Gate == nil || n.Session == nil || n.Password == nil {
		return errors.New("can not unlock, not configured")
	}
	pp := printerOrDefault(n.Printer)
	if n.Session.Unlocked() {
		pp.Success("Already unlocked.")
		return nil
	}

	pw, err := n.Password()
	if err != nil {
		return err
	}
	res := n.Gate.Attempt(ctx, n.Session, pw)
	switch {
	case res.Unlocked && res.Err != nil:
		pp.Warning("unlocked for this command only: %v", res.Err)
	case res.Unlocked:
		pp.Success("Unlocked.")
	default:
		return res.Err
	}
	return nil
}

// Lock forgets the unlock for the login session.
type Lock struct {
	Session *session.Session
	Printer *printers.PrettyPrint
}

func (n *Lock) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not lock, no session")
	}
	if err := n.Session.Lock(); err != nil {
		return err
	}
	printerOrDefault(n.Printer).Success("Locked.")
	return nil
}

// Hash prints a reference digest for the digest config key.
type Hash struct {
	Argon2   bool
	Password func() (string, error)

	Printer *printers.PrettyPrint
}

func (n *Hash) Do(ctx context.Context) error {
	if n.Password == nil {
		return errors.New("can not hash, no password source")
	}
	pw, err := n.Password()
	if err != nil {
		return err
	}
	if pw == "" {
		return errors.New("password cannot be empty")
	}
	ref := gate.Digest(pw)
	if n.Argon2 {
		if ref, err = gate.HashArgon2(pw); err != nil {
			return err
		}
	}
	printerOrDefault(n.Printer).Success("%s", ref)
	return nil
}

func printerOrDefault(pp *printers.PrettyPrint) *printers.PrettyPrint {
	if pp != nil {
		return pp
	}
	return &printers.PrettyPrint{}
}
