package pointcache

// binding is the per-entity record: the batch currently submitted, the hash
// of the buffer backing it, and opaque render configuration. Configuration
// is independent of buffer identity; a binding may exist with config only
// (batch == nil) before any data arrives.
type binding struct {
	entityID string
	batch    *Batch
	hash     uint64
	config   any
}

// bindingTable keys bindings by entity id. Reference counts over buffer
// hashes are computed by linear scan: the table is bounded by the number of
// visualization entities, orders of magnitude smaller than points per entity.
type bindingTable struct {
	m map[string]*binding
}

func newBindingTable() *bindingTable {
	return &bindingTable{m: make(map[string]*binding)}
}

func (t *bindingTable) get(id string) *binding { return t.m[id] }

func (t *bindingTable) getOrCreate(id string) *binding {
	if b, ok := t.m[id]; ok {
		return b
	}
	b := &binding{entityID: id}
	t.m[id] = b
	return b
}

func (t *bindingTable) delete(id string) { delete(t.m, id) }

func (t *bindingTable) len() int { return len(t.m) }

// each visits every binding; iteration order is unspecified.
func (t *bindingTable) each(fn func(*binding)) {
	for _, b := range t.m {
		fn(b)
	}
}

func (t *bindingTable) clear() { t.m = make(map[string]*binding) }

// referenced reports whether any binding with data references hash.
func (t *bindingTable) referenced(hash uint64) bool {
	for _, b := range t.m {
		if b.batch != nil && b.hash == hash {
			return true
		}
	}
	return false
}

// referencedByOther is referenced excluding one entity, used to decide
// whether that entity may overwrite its buffer in place.
func (t *bindingTable) referencedByOther(hash uint64, exclude string) bool {
	for id, b := range t.m {
		if id == exclude {
			continue
		}
		if b.batch != nil && b.hash == hash {
			return true
		}
	}
	return false
}
