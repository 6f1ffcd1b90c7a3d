package domain

import (
	"context"
	"errors"
)

// Snapshot is the whole record store, read and written as one unit.
type Snapshot struct {
	Swags []Swag `json:"swags"`
	Users []User `json:"users"`
}

// ErrStoreIO wraps every failure to read or write a snapshot.
var ErrStoreIO = errors.New("store i/o")

// SnapshotStore persists the record store. Write must be all-or-nothing.
type SnapshotStore interface {
	Read(ctx context.Context) (*Snapshot, error)
	Write(ctx context.Context, s *Snapshot) error
}

// Clone returns a deep copy so callers can mutate freely.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return &Snapshot{}
	}
	out := &Snapshot{
		Swags: append([]Swag(nil), s.Swags...),
		Users: make([]User, len(s.Users)),
	}
	for i, u := range s.Users {
		if u.TemporaryPasswordExpiry != nil {
			exp := *u.TemporaryPasswordExpiry
			u.TemporaryPasswordExpiry = &exp
		}
		orders := make([]OrderRecord, len(u.Orders))
		for j, o := range u.Orders {
			o.Items = append([]OrderLine(nil), o.Items...)
			orders[j] = o
		}
		u.Orders = orders
		out.Users[i] = u
	}
	return out
}
