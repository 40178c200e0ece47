package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextID(t *testing.T) {
	assert.Equal(t, int64(1), NextID(nil))
	assert.Equal(t, int64(8), NextID(SeedUsers()))
	// max, not last
	assert.Equal(t, int64(10), NextID([]User{{ID: 9}, {ID: 2}}))
}

func TestFilter_Matches(t *testing.T) {
	u := User{ID: 1, Username: "hussein", DisplayName: "Hussein"}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "zero filter", filter: Filter{}, want: true},
		{name: "field without value", filter: Filter{Field: FieldUsername}, want: true},
		{name: "username substring", filter: Filter{Field: FieldUsername, Value: "sse"}, want: true},
		{name: "username miss", filter: Filter{Field: FieldUsername, Value: "amr"}, want: false},
		{name: "case sensitive", filter: Filter{Field: FieldUsername, Value: "Huss"}, want: false},
		{name: "display name", filter: Filter{Field: FieldDisplayName, Value: "Huss"}, want: true},
		{name: "unknown field", filter: Filter{Field: "email", Value: "h"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(u))
		})
	}
}

func TestPatch_Apply(t *testing.T) {
	name := "Amr Diab"
	u := User{ID: 1, Username: "amr", DisplayName: "Amr"}

	Patch{DisplayName: &name}.Apply(&u)
	assert.Equal(t, User{ID: 1, Username: "amr", DisplayName: "Amr Diab"}, u)

	Patch{}.Apply(&u)
	assert.Equal(t, User{ID: 1, Username: "amr", DisplayName: "Amr Diab"}, u)
}

func TestIndexHint(t *testing.T) {
	ctx := WithIndexHint(context.Background(), 4, 3)

	idx, ok := IndexHintFrom(ctx, 4)
	assert.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = IndexHintFrom(ctx, 5)
	assert.False(t, ok, "hint belongs to another id")

	_, ok = IndexHintFrom(context.Background(), 4)
	assert.False(t, ok)
}
