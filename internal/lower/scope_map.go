package lower

import "errors"

// ErrDuplicateKey is returned by ScopeMap.Insert when the key is already
// bound in the innermost scope.
var ErrDuplicateKey = errors.New("key already bound in this scope")

// ScopeMap is a stack of maps. Lookups search from the innermost scope
// outward, so inner bindings shadow outer ones.
type ScopeMap[K comparable, V any] struct {
	scopes []map[K]V
}

func NewScopeMap[K comparable, V any]() *ScopeMap[K, V] {
	return &ScopeMap[K, V]{}
}

func (m *ScopeMap[K, V]) PushScope() {
	m.scopes = append(m.scopes, make(map[K]V))
}

// PopScope discards the innermost scope. Popping an empty map panics.
func (m *ScopeMap[K, V]) PopScope() {
	if len(m.scopes) == 0 {
		panic(InternalError{Msg: "pop of empty scope map"})
	}
	m.scopes = m.scopes[:len(m.scopes)-1]
}

func (m *ScopeMap[K, V]) NumScopes() int {
	return len(m.scopes)
}

// Insert binds k in the innermost scope.
func (m *ScopeMap[K, V]) Insert(k K, v V) error {
	if len(m.scopes) == 0 {
		panic(InternalError{Msg: "insert into scope map with no scopes"})
	}
	top := m.scopes[len(m.scopes)-1]
	if _, ok := top[k]; ok {
		return ErrDuplicateKey
	}
	top[k] = v
	return nil
}

// Get returns the innermost binding of k.
func (m *ScopeMap[K, V]) Get(k K) (V, bool) {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		if v, ok := m.scopes[i][k]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// ScopeOf returns the index (0 = outermost) of the scope holding the
// innermost binding of k.
func (m *ScopeMap[K, V]) ScopeOf(k K) (int, bool) {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		if _, ok := m.scopes[i][k]; ok {
			return i, true
		}
	}
	return 0, false
}
