package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	fields := []string{"name", "email", "tags", "password_hash", "address", "settings"}

	assert.Equal(t, []string{"name"}, Suggest("nmae", fields, DefaultThreshold))
	assert.Equal(t, []string{"address"}, Suggest("adress", fields, DefaultThreshold))
	assert.Equal(t, []string{"password_hash"}, Suggest("passwordHash", fields, DefaultThreshold))
	assert.Empty(t, Suggest("zzz", fields, DefaultThreshold))
	assert.Empty(t, Suggest("name", []string{"name"}, DefaultThreshold))
}

func TestSuggest_OrderAndCap(t *testing.T) {
	candidates := []string{"tagz", "tags", "tag", "tags_", "tagss"}

	// "tags_" normalizes to "tags" and ranks first; "tagz" and "tag" tie and
	// candidate order keeps "tagz", which takes the last slot.
	got := Suggest("tags", candidates, 0.5)
	assert.Equal(t, []string{"tags_", "tagss", "tagz"}, got)
}
