package realtime

import "testing"

func TestRegistryJoinIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	client := newTestClient("a")

	registry.Join("g1", client)
	registry.Join("g1", client)

	if members := registry.Members("g1"); len(members) != 1 {
		t.Errorf("Expected 1 member after double join, got %d", len(members))
	}
}

func TestRegistryRemovePrunesEmptyRooms(t *testing.T) {
	registry := NewRegistry()
	a := newTestClient("a")
	b := newTestClient("b")

	registry.Join("g1", a)
	registry.Join("g1", b)
	registry.Join("g2", a)

	registry.Remove(a)

	if members := registry.Members("g1"); len(members) != 1 {
		t.Errorf("Expected 1 member left in g1, got %d", len(members))
	}
	if members := registry.Members("g2"); len(members) != 0 {
		t.Errorf("Expected g2 to be empty, got %d members", len(members))
	}
	if count := registry.RoomCount(); count != 1 {
		t.Errorf("Expected empty room to be pruned, got %d rooms", count)
	}
}

func TestRegistryRemoveUnknownClient(t *testing.T) {
	registry := NewRegistry()
	// Removing a client that never joined must not panic
	registry.Remove(newTestClient("ghost"))

	if count := registry.RoomCount(); count != 0 {
		t.Errorf("Expected no rooms, got %d", count)
	}
}

func TestRegistryMembersSnapshot(t *testing.T) {
	registry := NewRegistry()
	a := newTestClient("a")
	registry.Join("g1", a)

	members := registry.Members("g1")
	registry.Remove(a)

	// The earlier snapshot is unaffected by the removal
	if len(members) != 1 {
		t.Errorf("Expected snapshot to keep 1 member, got %d", len(members))
	}
}
