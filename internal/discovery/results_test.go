package discovery_test

import (
	"encoding/json"
	"strings"
	"testing"

	"moviebuff/internal/catalog"
	"moviebuff/internal/discovery"
)

func TestSortedGenresOrdersByID(t *testing.T) {
	genres := discovery.SortedGenres(catalog.GenreMap{35: "Comedy", 12: "Adventure", 28: "Action"})
	want := []int{12, 28, 35}
	if len(genres) != len(want) {
		t.Fatalf("expected %d genres, got %v", len(want), genres)
	}
	for i, id := range want {
		if genres[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %v", i, id, genres)
		}
	}
	if got := discovery.SortedGenres(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestMembershipOmitsRemovedUnlessSet(t *testing.T) {
	data, err := json.Marshal(discovery.Membership{ID: 7, InWatchlist: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "removed") {
		t.Fatalf("expected no removed field, got %s", data)
	}
	removed := false
	data, err = json.Marshal(discovery.Membership{ID: 7, Removed: &removed})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"removed":false`) {
		t.Fatalf("expected explicit removed=false, got %s", data)
	}
}
