package booking

// Insert stores b as-is, bypassing uniqueness checks. Useful for seeding
// historical rows such as cancelled bookings.
func (m *MemoryRepository) Insert(b Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = append(m.bookings, b)
}

func (m *MemoryRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}
