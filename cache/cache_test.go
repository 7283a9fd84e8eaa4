package cache

import (
	"testing"
	"time"

	"github.com/tiwpheerachan/ledharvest/models"
)

func TestKey_Deterministic(t *testing.T) {
	a := models.SearchCriteria{Province: "ชลบุรี", District: "เมือง", MaxPages: 2}
	b := models.SearchCriteria{Province: "ชลบุรี", District: "เมือง", MaxPages: 2}
	if Key(a) != Key(b) {
		t.Error("identical criteria produced different keys")
	}
}

func TestKey_DistinguishesCriteria(t *testing.T) {
	base := models.SearchCriteria{Province: "ชลบุรี", District: "เมือง"}
	variants := []models.SearchCriteria{
		{Province: "ระยอง", District: "เมือง"},
		{Province: "ชลบุรี", District: "ศรีราชา"},
		{Province: "ชลบุรี", District: "เมือง", Subdistrict: "บ้านสวน"},
		{Province: "ชลบุรี", District: "เมือง", MaxPages: 3},
	}
	for i, v := range variants {
		if Key(base) == Key(v) {
			t.Errorf("variant %d collides with base key", i)
		}
	}
}

func TestCache_GetSet(t *testing.T) {
	c := New(10)
	key := Key(models.SearchCriteria{Province: "ชลบุรี"})
	resp := &models.SearchResponse{Success: true, Total: 3}

	if _, hit := c.Get(key, 60000); hit {
		t.Error("unexpected hit on empty cache")
	}

	c.Set(key, resp)
	got, hit := c.Get(key, 60000)
	if !hit {
		t.Fatal("expected cache hit")
	}
	if got.Total != 3 {
		t.Errorf("cached Total = %d, want 3", got.Total)
	}
}

func TestCache_MaxAgeZeroBypasses(t *testing.T) {
	c := New(10)
	key := Key(models.SearchCriteria{Province: "ชลบุรี"})
	c.Set(key, &models.SearchResponse{Success: true})

	if _, hit := c.Get(key, 0); hit {
		t.Error("maxAge 0 should bypass the cache")
	}
}

func TestCache_ExpiredEntryMisses(t *testing.T) {
	c := New(10)
	key := Key(models.SearchCriteria{Province: "ชลบุรี"})
	c.Set(key, &models.SearchResponse{Success: true})

	// Backdate the entry past any plausible maxAge.
	c.mu.Lock()
	c.store[key].createdAt = time.Now().Add(-2 * time.Hour)
	c.mu.Unlock()

	if _, hit := c.Get(key, 1000); hit {
		t.Error("expired entry should miss")
	}
}

func TestCache_EvictsAtCapacity(t *testing.T) {
	c := New(2)
	for _, p := range []string{"a", "b", "c"} {
		c.Set(Key(models.SearchCriteria{Province: p}), &models.SearchResponse{})
	}

	c.mu.RLock()
	size := len(c.store)
	c.mu.RUnlock()
	if size > 2 {
		t.Errorf("cache grew to %d entries, capacity 2", size)
	}
}
