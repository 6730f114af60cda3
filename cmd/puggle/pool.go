package main

import (
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/puggle/storage/sqlite/zombiezen"
)

// Pool opens the sqlite pool of a store on first use.
type Pool struct {
	p    *sqlitex.Pool
	path string
}

func (p *Pool) Open(path string) (*sqlitex.Pool, error) {
	if p.p != nil && p.path == path {
		return p.p, nil
	}
	if err := p.Close(); err != nil {
		return nil, err
	}

	pool, err := zombiezen.NewPool(path)
	if err != nil {
		return nil, err
	}
	p.p, p.path = pool, path
	return p.p, nil
}

func (p *Pool) Close() error {
	if p.p == nil {
		return nil
	}
	err := p.p.Close()
	p.p = nil
	return err
}
