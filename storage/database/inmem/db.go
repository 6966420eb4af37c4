// Package inmemdb is a process-local store implementing every repository. It backs tests and
// `database.engine=memory` deployments.
package inmemdb

import (
	"bytes"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core/booking"
	"github.com/the-user01/Study-Platform-Server/core/material"
	"github.com/the-user01/Study-Platform-Server/core/note"
	"github.com/the-user01/Study-Platform-Server/core/session"
	"github.com/the-user01/Study-Platform-Server/core/user"
)

type (
	DB struct {
		mu        sync.RWMutex
		users     map[primitive.ObjectID]*user.User
		sessions  map[primitive.ObjectID]*session.Session
		materials map[primitive.ObjectID]*material.Material
		notes     map[primitive.ObjectID]*note.Note
		bookings  map[primitive.ObjectID]*booking.BookedSession
	}
)

func Open() *DB {
	return &DB{
		users:     make(map[primitive.ObjectID]*user.User),
		sessions:  make(map[primitive.ObjectID]*session.Session),
		materials: make(map[primitive.ObjectID]*material.Material),
		notes:     make(map[primitive.ObjectID]*note.Note),
		bookings:  make(map[primitive.ObjectID]*booking.BookedSession),
	}
}

// Reset drops every record.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = make(map[primitive.ObjectID]*user.User)
	db.sessions = make(map[primitive.ObjectID]*session.Session)
	db.materials = make(map[primitive.ObjectID]*material.Material)
	db.notes = make(map[primitive.ObjectID]*note.Note)
	db.bookings = make(map[primitive.ObjectID]*booking.BookedSession)
}

// sortByID orders records by ascending ObjectID, i.e. insertion order, like a Mongo natural scan.
func sortByID(n int, id func(i int) primitive.ObjectID, swap func(i, j int)) {
	sort.Sort(byID{n: n, id: id, swap: swap})
}

type byID struct {
	n    int
	id   func(i int) primitive.ObjectID
	swap func(i, j int)
}

func (s byID) Len() int      { return s.n }
func (s byID) Swap(i, j int) { s.swap(i, j) }
func (s byID) Less(i, j int) bool {
	a, b := s.id(i), s.id(j)
	return bytes.Compare(a[:], b[:]) < 0
}
