package session

// Settled reports whether the bootstrap probe has finished. Until then an absent session doesn't mean logged out.
func (s Snapshot) Settled() bool {
	return !s.Loading
}

func (s Snapshot) IsAdmin() bool {
	return s.Session != nil && s.Session.Role == RoleAdmin
}

func (s Snapshot) IsBroker() bool {
	return s.Session != nil && s.Session.Role == RoleBroker
}

func (s Snapshot) IsAnonymous() bool {
	return s.Session == nil
}

// The store level predicates read a fresh snapshot on every call

func IsAdmin(s *Store) bool {
	return s.Current().IsAdmin()
}

func IsBroker(s *Store) bool {
	return s.Current().IsBroker()
}

func IsAnonymous(s *Store) bool {
	return s.Current().IsAnonymous()
}
