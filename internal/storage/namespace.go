package storage

// Namespace returns a view of db whose keys all live under "<name>/".
// Keys passed to ForEach callbacks have the namespace removed. Closing the
// view leaves db open.
func Namespace(db DB, name string) DB {
	return &namespaced{db: db, ns: []byte(name + "/")}
}

type namespaced struct {
	db DB
	ns []byte
}

func (n *namespaced) key(k []byte) []byte {
	return append(append(make([]byte, 0, len(n.ns)+len(k)), n.ns...), k...)
}

func (n *namespaced) Get(key []byte) ([]byte, error) { return n.db.Get(n.key(key)) }

func (n *namespaced) Put(key, value []byte) error { return n.db.Put(n.key(key), value) }

func (n *namespaced) Has(key []byte) (bool, error) { return n.db.Has(n.key(key)) }

func (n *namespaced) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return n.db.ForEach(n.key(prefix), func(key, value []byte) error {
		return fn(key[len(n.ns):], value)
	})
}

func (n *namespaced) Close() error { return nil }
