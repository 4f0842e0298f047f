// Package models is a fixture for the static provider tests.
package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Status of an account.
type Status int32

const (
	StatusNone Status = iota
	StatusActive
	StatusInactive
	StatusPending
)

const unrelated = 7

// Color has gaps in its ordinals.
type Color uint8

const (
	Red   Color = 1
	Green Color = 5
	Blue  Color = 2
)

// Person is a plain record.
//
//capnp:record
//capnp:id 0x10
type Person struct {
	Name   string
	Age    int32
	Active bool
}

// Account mixes properties and plain fields.
//
//capnp:record
type Account struct {
	balance int64
	note    string

	Owner    string
	Tags     []string
	Nickname *string
	Home     Address
	State    Status
	Matrix   [][]int16
	Opened   time.Time
	Timeout  time.Duration
	Memo     sql.NullString
	Score    sql.Null[float64]
	Payload  json.RawMessage
	Digest   [32]byte
	Lookup   map[string]int
	Secret   string `capnp:"-"`
	internal int

	Embedded
}

func (a *Account) Balance() int64     { return a.balance }
func (a *Account) SetBalance(v int64) { a.balance = v }
func (a *Account) Note() string       { return a.note }
func (a *Account) SetLimit(v int32)   {}

// Embedded is not a record.
type Embedded struct {
	Hidden string
}

// Address opts in with a marker method.
type Address struct {
	Street string
}

func (Address) CapnpRecord() {}

// Greeter is an interface.
type Greeter interface {
	Wave()
	Greet(name string) error
	fmtName() string
}

// Named embeds Greeter; only its own methods count.
type Named interface {
	Greeter
	Name() string
}
