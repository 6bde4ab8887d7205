package ldbstore

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/timpalpant/go-mdp"
)

const (
	valuePrefix  = "v:"
	policyPrefix = "pi:"
	itersKey     = "iters"
)

// Store persists solutions in a LevelDB database.
type Store struct {
	db    *leveldb.DB
	rOpts *opt.ReadOptions
	wOpts *opt.WriteOptions
}

// New creates a Store on top of an already-open database.
func New(db *leveldb.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if necessary) a database at the given path and
// returns a Store backed by it.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "ldbstore: opening %v", path)
	}

	return New(db), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put writes the solution, replacing any previously stored one with the
// same number of states. All entries are committed in a single batch.
func (s *Store) Put(sol *mdp.Solution) error {
	batch := new(leveldb.Batch)
	for i, v := range sol.Value {
		batch.Put(stateKey(valuePrefix, i), encodeF64(v))
	}

	for i, a := range sol.Policy {
		batch.Put(stateKey(policyPrefix, i), encodeI64(int64(a)))
	}

	batch.Put([]byte(itersKey), encodeI64(int64(sol.Iters)))
	return errors.Wrap(s.db.Write(batch, s.wOpts), "ldbstore: writing solution")
}

// Get reads the stored solution. It fails if no solution has been stored.
func (s *Store) Get() (*mdp.Solution, error) {
	buf, err := s.db.Get([]byte(itersKey), s.rOpts)
	if err != nil {
		return nil, errors.Wrap(err, "ldbstore: reading iteration count")
	}

	sol := &mdp.Solution{Iters: int(decodeI64(buf))}

	iter := s.db.NewIterator(util.BytesPrefix([]byte(valuePrefix)), s.rOpts)
	for iter.Next() {
		sol.Value = append(sol.Value, decodeF64(iter.Value()))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "ldbstore: scanning values")
	}

	iter = s.db.NewIterator(util.BytesPrefix([]byte(policyPrefix)), s.rOpts)
	for iter.Next() {
		sol.Policy = append(sol.Policy, mdp.Action(decodeI64(iter.Value())))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "ldbstore: scanning policy")
	}

	if len(sol.Policy) != len(sol.Value) {
		return nil, errors.Errorf("ldbstore: %d policy entries but %d values",
			len(sol.Policy), len(sol.Value))
	}

	return sol, nil
}

// stateKey builds prefix + big-endian state index, so that iteration
// order over a prefix is state order.
func stateKey(prefix string, state int) []byte {
	key := make([]byte, len(prefix)+4)
	copy(key, prefix)
	binary.BigEndian.PutUint32(key[len(prefix):], uint32(state))
	return key
}

func encodeF64(v float64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	return buf[:]
}

func decodeF64(buf []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(buf))
}

func encodeI64(v int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return buf[:]
}

func decodeI64(buf []byte) int64 {
	return int64(binary.BigEndian.Uint64(buf))
}
