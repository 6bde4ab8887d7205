// Package rdbstore checkpoints policy-iteration solutions in a RocksDB
// database. It is functionally equivalent to ldbstore and exists for
// deployments that already operate RocksDB.
package rdbstore

import (
	"bytes"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	rocksdb "github.com/tecbot/gorocksdb"

	"github.com/timpalpant/go-mdp"
)

var solutionKey = []byte("solution")

// Params are the database configuration options for a Store.
type Params struct {
	// Path is the directory of the RocksDB database.
	Path string
	// Options configure the database. If nil, rocksdb defaults with
	// create-if-missing are used.
	Options *rocksdb.Options
}

// Store persists solutions in a RocksDB database.
type Store struct {
	params Params

	db    *rocksdb.DB
	rOpts *rocksdb.ReadOptions
	wOpts *rocksdb.WriteOptions
}

// New opens (creating if necessary) the database described by params.
func New(params Params) (*Store, error) {
	opts := params.Options
	if opts == nil {
		opts = rocksdb.NewDefaultOptions()
		opts.SetCreateIfMissing(true)
	}

	db, err := rocksdb.OpenDb(opts, params.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "rdbstore: opening %v", params.Path)
	}

	return &Store{
		params: params,
		db:     db,
		rOpts:  rocksdb.NewDefaultReadOptions(),
		wOpts:  rocksdb.NewDefaultWriteOptions(),
	}, nil
}

// Close releases the database and its options.
func (s *Store) Close() {
	s.rOpts.Destroy()
	s.wOpts.Destroy()
	s.db.Close()
}

// Put writes the gob-encoded solution.
func (s *Store) Put(sol *mdp.Solution) error {
	var buf bytes.Buffer
	if err := sol.MarshalTo(&buf); err != nil {
		return errors.Wrap(err, "rdbstore: encoding solution")
	}

	glog.V(2).Infof("Writing %d-byte solution to %v", buf.Len(), s.params.Path)
	return errors.Wrap(s.db.Put(s.wOpts, solutionKey, buf.Bytes()),
		"rdbstore: writing solution")
}

// Get reads the stored solution. It fails if no solution has been stored.
func (s *Store) Get() (*mdp.Solution, error) {
	buf, err := s.db.GetBytes(s.rOpts, solutionKey)
	if err != nil {
		return nil, errors.Wrap(err, "rdbstore: reading solution")
	}
	if buf == nil {
		return nil, errors.New("rdbstore: no solution stored")
	}

	sol, err := mdp.LoadSolution(bytes.NewReader(buf))
	return sol, errors.Wrap(err, "rdbstore: decoding solution")
}
