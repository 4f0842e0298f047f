package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveID_Deterministic(t *testing.T) {
	first := DeriveID("github.com/acme/models.Person")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DeriveID("github.com/acme/models.Person"))
	}
}

func TestDeriveID_HighBitAlwaysSet(t *testing.T) {
	names := []string{"", "a", "Person", "github.com/acme/models.Person", "日本.型"}
	for _, name := range names {
		id := DeriveID(name)
		assert.NotZero(t, id, name)
		assert.Equal(t, IDOffset, id&IDOffset, "high bit missing for %q", name)
	}
}

func TestDeriveID_NameSensitive(t *testing.T) {
	seen := make(map[uint64]string)
	names := []string{
		"models.Person",
		"models.person",
		"models.Persons",
		"other.Person",
		"Person",
		"models.Status",
		"models.Greeter",
	}
	for _, name := range names {
		id := DeriveID(name)
		if prev, dup := seen[id]; dup {
			t.Fatalf("DeriveID collision between %q and %q", prev, name)
		}
		seen[id] = name
	}
}

func TestDeriveFileID_SeparateDomain(t *testing.T) {
	// The same string hashes differently as a type and as a file
	assert.NotEqual(t, DeriveID("github.com/acme/models"), DeriveFileID("github.com/acme/models"))
	assert.Equal(t, IDOffset, DeriveFileID("github.com/acme/models")&IDOffset)
}
